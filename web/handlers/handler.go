package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kpdgayao/vivita-inventory/analytics"
	"github.com/kpdgayao/vivita-inventory/database"
	"github.com/kpdgayao/vivita-inventory/repository"
	"github.com/kpdgayao/vivita-inventory/web/middleware"
)

// Handler serves every page and API route
type Handler struct {
	db        *gorm.DB
	items     *repository.ItemStore
	suppliers *repository.SupplierStore
	txns      *repository.TransactionStore
	activity  *repository.ActivityStore
	analytics *analytics.Service
	queries   *database.QueryLogger
	log       *zap.Logger
}

// Deps are the collaborators a Handler needs
type Deps struct {
	DB           *gorm.DB
	Items        *repository.ItemStore
	Suppliers    *repository.SupplierStore
	Transactions *repository.TransactionStore
	Activity     *repository.ActivityStore
	Analytics    *analytics.Service
	QueryLog     *database.QueryLogger
	Log          *zap.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	queries := d.QueryLog
	if queries == nil {
		queries = database.SQLLogger
	}
	return &Handler{
		db:        d.DB,
		items:     d.Items,
		suppliers: d.Suppliers,
		txns:      d.Transactions,
		activity:  d.Activity,
		analytics: d.Analytics,
		queries:   queries,
		log:       log.Named("handlers"),
	}
}

// WantsJSON reports whether the client asked for a JSON response
func WantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") {
		return true
	}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func (h *Handler) render(c *fiber.Ctx, page string, data fiber.Map) error {
	queries := middleware.RequestQueries(c, h.queries)
	data["SQLQueries"] = queries
	data["TotalSQLQueries"] = len(queries)
	return c.Render(page, data, "layouts/base")
}

// invalidate drops cached analytics after a write
func (h *Handler) invalidate(c *fiber.Ctx) {
	h.analytics.Invalidate(c.UserContext())
}

// formError re-renders a form with field messages, or returns err so the
// error handler can answer API clients.
func (h *Handler) formError(c *fiber.Ctx, err error, page string, data fiber.Map) error {
	var verr *repository.ValidationError
	if WantsJSON(c) || !errors.As(err, &verr) {
		return err
	}
	data["Errors"] = verr.Fields
	c.Status(fiber.StatusUnprocessableEntity)
	return h.render(c, page, data)
}

// input reads request fields from a JSON object or a submitted form
type input struct {
	c    *fiber.Ctx
	json map[string]string
}

func readInput(c *fiber.Ctx) (input, error) {
	in := input{c: c}
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return in, nil
	}
	raw := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return in, fiber.NewError(fiber.StatusBadRequest, "invalid JSON body: "+err.Error())
	}
	in.json = make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
		case string:
			in.json[k] = t
		case json.Number:
			in.json[k] = t.String()
		case bool:
			in.json[k] = strconv.FormatBool(t)
		default:
			b, _ := json.Marshal(t)
			in.json[k] = string(b)
		}
	}
	return in, nil
}

func (in input) Get(key string) string {
	if in.json != nil {
		return strings.TrimSpace(in.json[key])
	}
	return strings.TrimSpace(in.c.FormValue(key))
}

// OptString is nil for a blank field
func (in input) OptString(key string) *string {
	v := in.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func (in input) Bool(key string) bool {
	v, _ := strconv.ParseBool(in.Get(key))
	return v
}

// Int parses key, recording a message on verr when it is malformed.
// A blank field is zero.
func (in input) Int(key string, verr *repository.ValidationError) int64 {
	raw := in.Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		verr.Add(key, "must be a whole number")
	}
	return v
}

func (in input) OptInt(key string, verr *repository.ValidationError) *int64 {
	if in.Get(key) == "" {
		return nil
	}
	v := in.Int(key, verr)
	return &v
}

func (in input) Decimal(key string, verr *repository.ValidationError) decimal.Decimal {
	raw := strings.ReplaceAll(in.Get(key), ",", "")
	if raw == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		verr.Add(key, "must be a number")
		return decimal.Zero
	}
	return v
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
