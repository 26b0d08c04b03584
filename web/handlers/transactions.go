package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kpdgayao/vivita-inventory/analytics"
	"github.com/kpdgayao/vivita-inventory/models"
	"github.com/kpdgayao/vivita-inventory/repository"
)

const defaultTransactionLimit = 100

// transactionFilter reads ?item_id, ?type, ?range or ?from/?to and ?limit.
// to is an inclusive date.
func (h *Handler) transactionFilter(c *fiber.Ctx) (repository.TransactionFilter, error) {
	f := repository.TransactionFilter{
		ItemID: c.Query("item_id"),
		Type:   models.TransactionType(c.Query("type")),
		Limit:  queryInt(c, "limit", defaultTransactionLimit),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, fiber.NewError(fiber.StatusBadRequest, "unknown transaction type "+string(f.Type))
	}

	loc := h.analytics.Location()
	if name := c.Query("range"); name != "" {
		r, err := analytics.ParseDateRange(name, h.analytics.Now())
		if err != nil {
			return f, err
		}
		f.From, f.To = r.From, r.To
		return f, nil
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		f.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		f.To = t.AddDate(0, 0, 1)
	}
	return f, nil
}

// TransactionList displays ledger rows, newest first
func (h *Handler) TransactionList(c *fiber.Ctx) error {
	ctx := c.UserContext()
	f, err := h.transactionFilter(c)
	if err != nil {
		return err
	}
	txns, err := h.txns.List(ctx, f)
	if err != nil {
		return err
	}

	if WantsJSON(c) {
		return c.JSON(txns)
	}
	items, err := h.items.All(ctx, true)
	if err != nil {
		return err
	}
	return h.render(c, "pages/transactions/list", fiber.Map{
		"Title":        "Transactions",
		"Active":       "transactions",
		"Transactions": txns,
		"Items":        items,
		"Types":        models.TransactionTypes(),
		"Filter":       f,
		"Range":        c.Query("range"),
		"From":         c.Query("from"),
		"To":           c.Query("to"),
	})
}

func (h *Handler) transactionFormData(c *fiber.Ctx, form fiber.Map) (fiber.Map, error) {
	items, err := h.items.All(c.UserContext(), false)
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"Title":  "Record Transaction",
		"Active": "transactions",
		"Items":  items,
		"Types":  models.TransactionTypes(),
		"Form":   form,
		"Errors": map[string]string{},
	}, nil
}

// TransactionNew shows the stock movement form
func (h *Handler) TransactionNew(c *fiber.Ctx) error {
	data, err := h.transactionFormData(c, fiber.Map{
		"item_id":          c.Query("item_id"),
		"transaction_type": c.Query("type", string(models.TransactionPurchase)),
		"quantity":         "",
		"unit_price":       "",
		"reference_number": "",
		"notes":            "",
	})
	if err != nil {
		return err
	}
	return h.render(c, "pages/transactions/form", data)
}

// TransactionCreate records a stock movement
func (h *Handler) TransactionCreate(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return err
	}
	verr := &repository.ValidationError{}
	rec := repository.RecordInput{
		ItemID:          in.Get("item_id"),
		Type:            models.TransactionType(in.Get("transaction_type")),
		Quantity:        in.Int("quantity", verr),
		UnitPrice:       in.Decimal("unit_price", verr),
		ReferenceNumber: in.Get("reference_number"),
		Notes:           in.Get("notes"),
	}
	err = verr.Err()
	var txn *models.Transaction
	if err == nil {
		txn, err = h.txns.Record(c.UserContext(), rec)
	}
	if err != nil {
		h.log.Info("transaction rejected", zap.String("item_id", rec.ItemID), zap.Error(err))
		data, derr := h.transactionFormData(c, fiber.Map{
			"item_id":          rec.ItemID,
			"transaction_type": string(rec.Type),
			"quantity":         in.Get("quantity"),
			"unit_price":       in.Get("unit_price"),
			"reference_number": rec.ReferenceNumber,
			"notes":            rec.Notes,
		})
		if derr != nil {
			return derr
		}
		return h.formError(c, err, "pages/transactions/form", data)
	}
	h.invalidate(c)

	if WantsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(txn)
	}
	return c.Redirect("/transactions/" + txn.ID)
}

// TransactionView shows one ledger row
func (h *Handler) TransactionView(c *fiber.Ctx) error {
	txn, err := h.txns.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if WantsJSON(c) {
		return c.JSON(txn)
	}
	return h.render(c, "pages/transactions/view", fiber.Map{
		"Title":       txn.ReferenceNumber,
		"Active":      "transactions",
		"Transaction": txn,
	})
}
