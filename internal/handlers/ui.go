package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"coffee-order/internal/models"
	"coffee-order/internal/order"
	"coffee-order/internal/session"
)

type orderFormRequest struct {
	Name    string `form:"name"`
	Phone   string `form:"phone"`
	Address string `form:"address"`
	Action  string `form:"action" binding:"required,orderaction"`
}

type pageData struct {
	View   order.View
	Notice *session.Notice
}

// ValidateOrderAction accepts "submit", "increase:<id>" and "decrease:<id>".
// It is registered with gin's validator under the tag "orderaction".
func ValidateOrderAction(fl validator.FieldLevel) bool {
	_, _, err := parseAction(fl.Field().String())
	return err == nil
}

func parseAction(raw string) (string, int, error) {
	if raw == "submit" {
		return raw, 0, nil
	}
	verb, idText, ok := strings.Cut(raw, ":")
	if !ok || (verb != "increase" && verb != "decrease") {
		return "", 0, strconv.ErrSyntax
	}
	id, err := strconv.Atoi(idText)
	if err != nil {
		return "", 0, err
	}
	return verb, id, nil
}

func OrderPage(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /"
		defer handlePanic(c, route)

		sid, form, ok := sessionForm(c, reg, route)
		if !ok {
			return
		}

		data := pageData{View: form.View()}
		if n, ok := reg.TakeNotice(sid); ok {
			data.Notice = &n
		}
		refresh(c.Request.Context(), reg, sid, route)
		c.Header("Cache-Control", "no-store")
		c.HTML(http.StatusOK, "order.html", data)
	}
}

// SubmitOrderForm handles every button on the order page. The customer
// fields are applied first so typed input survives quantity changes.
func SubmitOrderForm(reg *session.Registry, catalog *models.Catalog, sender order.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order"
		defer handlePanic(c, route)

		var req orderFormRequest
		if err := c.ShouldBind(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		verb, itemID, _ := parseAction(req.Action)
		if verb != "submit" {
			if _, known := catalog.Lookup(itemID); !known {
				respondWithError(c, http.StatusNotFound, route, "menu item not found")
				return
			}
		}

		sid, form, ok := sessionForm(c, reg, route)
		if !ok {
			return
		}

		form.SetName(req.Name)
		form.SetPhone(req.Phone)
		form.SetAddress(req.Address)

		switch verb {
		case "increase":
			form.Increase(itemID)
		case "decrease":
			form.Decrease(itemID)
		case "submit":
			result := submit(c, route, form, sender)
			reg.SetNotice(sid, result.notice)
		}

		persist(c.Request.Context(), reg, sid, route)
		c.Redirect(http.StatusSeeOther, "/")
	}
}
