package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kpdgayao/vivita-inventory/models"
)

// SupplierList displays suppliers, active ones unless include_inactive is set
func (h *Handler) SupplierList(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive")
	suppliers, err := h.suppliers.List(c.UserContext(), includeInactive)
	if err != nil {
		return err
	}

	if WantsJSON(c) {
		return c.JSON(suppliers)
	}
	return h.render(c, "pages/suppliers/list", fiber.Map{
		"Title":           "Suppliers",
		"Active":          "suppliers",
		"Suppliers":       suppliers,
		"IncludeInactive": includeInactive,
	})
}

func supplierFormData(title string, sup *models.Supplier, isNew bool) fiber.Map {
	return fiber.Map{
		"Title":    title,
		"Active":   "suppliers",
		"Supplier": sup,
		"IsNew":    isNew,
		"Errors":   map[string]string{},
	}
}

func bindSupplier(in input, sup *models.Supplier) {
	sup.Name = in.Get("name")
	sup.ContactName = in.OptString("contact_name")
	sup.ContactEmail = in.OptString("contact_email")
	sup.Phone = in.OptString("phone")
	sup.Address = in.OptString("address")
	sup.Remarks = in.OptString("remarks")
}

// SupplierNew shows form to create new supplier
func (h *Handler) SupplierNew(c *fiber.Ctx) error {
	return h.render(c, "pages/suppliers/form", supplierFormData("New Supplier", &models.Supplier{}, true))
}

// SupplierCreate creates a new supplier
func (h *Handler) SupplierCreate(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return err
	}
	sup := &models.Supplier{}
	bindSupplier(in, sup)
	if err := h.suppliers.Create(c.UserContext(), sup); err != nil {
		return h.formError(c, err, "pages/suppliers/form", supplierFormData("New Supplier", sup, true))
	}

	if WantsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(sup)
	}
	return c.Redirect("/suppliers")
}

// SupplierEdit shows form to edit a supplier
func (h *Handler) SupplierEdit(c *fiber.Ctx) error {
	sup, err := h.suppliers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.render(c, "pages/suppliers/form", supplierFormData("Edit "+sup.Name, sup, false))
}

// SupplierUpdate saves the submitted supplier fields
func (h *Handler) SupplierUpdate(c *fiber.Ctx) error {
	in, err := readInput(c)
	if err != nil {
		return err
	}
	sup := &models.Supplier{}
	sup.ID = c.Params("id")
	bindSupplier(in, sup)
	if err := h.suppliers.Update(c.UserContext(), sup); err != nil {
		return h.formError(c, err, "pages/suppliers/form", supplierFormData("Edit Supplier", sup, false))
	}
	// supplier names show up in item views
	h.invalidate(c)

	if WantsJSON(c) {
		return c.JSON(sup)
	}
	return c.Redirect("/suppliers")
}

// SupplierDelete deactivates a supplier
func (h *Handler) SupplierDelete(c *fiber.Ctx) error {
	if err := h.suppliers.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	h.invalidate(c)

	if WantsJSON(c) {
		return c.JSON(fiber.Map{"deactivated": true})
	}
	return c.Redirect("/suppliers")
}
