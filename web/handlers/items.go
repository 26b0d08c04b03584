package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kpdgayao/vivita-inventory/ledger"
	"github.com/kpdgayao/vivita-inventory/models"
	"github.com/kpdgayao/vivita-inventory/repository"
)

var stockStatuses = []ledger.StockStatus{
	ledger.StatusOutOfStock, ledger.StatusLow, ledger.StatusNormal, ledger.StatusHigh,
}

func itemFilter(c *fiber.Ctx) repository.ItemFilter {
	f := repository.ItemFilter{
		Category:        models.Category(c.Query("category")),
		Status:          ledger.StockStatus(c.Query("status")),
		Search:          c.Query("search"),
		SupplierID:      c.Query("supplier_id"),
		SortBy:          c.Query("sort", "name"),
		SortOrder:       c.Query("order", "asc"),
		IncludeInactive: c.QueryBool("include_inactive"),
		Page:            queryInt(c, "page", 1),
		PageSize:        queryInt(c, "page_size", repository.DefaultPageSize),
	}
	if !f.Category.Valid() {
		f.Category = ""
	}
	if !f.Status.Valid() {
		f.Status = ""
	}
	return f
}

// ItemList displays the filtered, paginated item list
func (h *Handler) ItemList(c *fiber.Ctx) error {
	f := itemFilter(c)
	items, page, err := h.items.List(c.UserContext(), f)
	if err != nil {
		return err
	}

	if WantsJSON(c) {
		return c.JSON(fiber.Map{"items": items, "page": page})
	}
	return h.render(c, "pages/items/list", fiber.Map{
		"Title":      "Items",
		"Active":     "items",
		"Items":      items,
		"Page":       page,
		"Filter":     f,
		"Categories": models.Categories(),
		"Statuses":   stockStatuses,
	})
}

func (h *Handler) itemFormData(c *fiber.Ctx, title string, item *models.Item, isNew bool) (fiber.Map, error) {
	suppliers, err := h.suppliers.List(c.UserContext(), false)
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"Title":      title,
		"Active":     "items",
		"Item":       item,
		"IsNew":      isNew,
		"Categories": models.Categories(),
		"UnitTypes":  models.UnitTypes(),
		"Suppliers":  suppliers,
		"Errors":     map[string]string{},
	}, nil
}

// ItemNew shows form to create new item
func (h *Handler) ItemNew(c *fiber.Ctx) error {
	data, err := h.itemFormData(c, "New Item", &models.Item{UnitType: models.UnitPiece}, true)
	if err != nil {
		return err
	}
	return h.render(c, "pages/items/form", data)
}

// bindItem copies request fields onto item
func bindItem(in input, item *models.Item, isNew bool) error {
	verr := &repository.ValidationError{}
	item.Name = in.Get("name")
	item.Description = in.OptString("description")
	item.SKU = in.Get("sku")
	item.Category = models.Category(in.Get("category"))
	item.UnitType = models.UnitType(in.Get("unit_type"))
	item.MinQuantity = in.Int("min_quantity", verr)
	item.MaxQuantity = in.OptInt("max_quantity", verr)
	item.UnitCost = in.Decimal("unit_cost", verr)
	item.SupplierID = in.OptString("supplier_id")
	if isNew {
		item.Quantity = in.Int("quantity", verr)
	} else if raw := in.Get("is_active"); raw != "" {
		item.IsActive, _ = strconv.ParseBool(raw)
	}
	return verr.Err()
}

// ItemCreate creates a new item
func (h *Handler) ItemCreate(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return err
	}
	item := &models.Item{}
	err = bindItem(in, item, true)
	if err == nil {
		err = h.items.Create(c.UserContext(), item)
	}
	if err != nil {
		data, derr := h.itemFormData(c, "New Item", item, true)
		if derr != nil {
			return derr
		}
		return h.formError(c, err, "pages/items/form", data)
	}
	h.invalidate(c)

	if WantsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(item)
	}
	return c.Redirect("/items/" + item.ID)
}

// ItemView shows one item with its stock status and valued ledger
func (h *Handler) ItemView(c *fiber.Ctx) error {
	ledgerView, err := h.analytics.ItemLedger(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	status := ledger.Status(ledgerView.Item)

	if WantsJSON(c) {
		return c.JSON(fiber.Map{"item": ledgerView.Item, "status": status, "unit_cost": ledgerView.UnitCost, "value": ledgerView.Value})
	}
	return h.render(c, "pages/items/view", fiber.Map{
		"Title":  ledgerView.Item.Name,
		"Active": "items",
		"Item":   ledgerView.Item,
		"Ledger": ledgerView,
		"Status": status,
	})
}

// ItemEdit shows form to edit an item
func (h *Handler) ItemEdit(c *fiber.Ctx) error {
	item, err := h.items.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	data, err := h.itemFormData(c, "Edit "+item.Name, item, false)
	if err != nil {
		return err
	}
	return h.render(c, "pages/items/form", data)
}

// ItemUpdate saves an edited item
func (h *Handler) ItemUpdate(c *fiber.Ctx) error {
	ctx := c.UserContext()
	item, err := h.items.Get(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	in, err := readInput(c)
	if err != nil {
		return err
	}
	item.Supplier = nil
	err = bindItem(in, item, false)
	if err == nil {
		err = h.items.Update(ctx, item)
	}
	if err != nil {
		data, derr := h.itemFormData(c, "Edit "+item.Name, item, false)
		if derr != nil {
			return derr
		}
		return h.formError(c, err, "pages/items/form", data)
	}
	h.invalidate(c)

	if WantsJSON(c) {
		updated, err := h.items.Get(ctx, item.ID)
		if err != nil {
			return err
		}
		return c.JSON(updated)
	}
	return c.Redirect("/items/" + item.ID)
}

// ItemDelete deletes an item, or deactivates it when it has history
func (h *Handler) ItemDelete(c *fiber.Ctx) error {
	deactivated, err := h.items.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	h.invalidate(c)

	if WantsJSON(c) {
		return c.JSON(fiber.Map{"deleted": !deactivated, "deactivated": deactivated})
	}
	return c.Redirect("/items")
}

// ItemLedger shows the running balance and weighted average valuation
func (h *Handler) ItemLedger(c *fiber.Ctx) error {
	ledgerView, err := h.analytics.ItemLedger(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if WantsJSON(c) {
		return c.JSON(ledgerView)
	}
	return h.render(c, "pages/items/ledger", fiber.Map{
		"Title":  ledgerView.Item.Name + " ledger",
		"Active": "items",
		"Ledger": ledgerView,
	})
}
