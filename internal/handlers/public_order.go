package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coffee-order/internal/models"
	"coffee-order/internal/order"
	"coffee-order/internal/session"
)

type itemURI struct {
	ID int `uri:"id" binding:"required,min=1"`
}

// updateCustomerRequest only touches the fields that are present.
type updateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func GetMenu(catalog *models.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.Items())
	}
}

func GetOrder(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/order"
		defer handlePanic(c, route)

		sid, form, ok := sessionForm(c, reg, route)
		if !ok {
			return
		}
		refresh(c.Request.Context(), reg, sid, route)
		c.JSON(http.StatusOK, form.View())
	}
}

func IncreaseItem(reg *session.Registry, catalog *models.Catalog) gin.HandlerFunc {
	return changeQuantity(reg, catalog, "POST /api/order/items/:id/increase", (*order.Form).Increase)
}

func DecreaseItem(reg *session.Registry, catalog *models.Catalog) gin.HandlerFunc {
	return changeQuantity(reg, catalog, "POST /api/order/items/:id/decrease", (*order.Form).Decrease)
}

func changeQuantity(reg *session.Registry, catalog *models.Catalog, route string, apply func(*order.Form, int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, route)

		var uri itemURI
		if err := c.ShouldBindUri(&uri); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid item id")
			return
		}
		if _, known := catalog.Lookup(uri.ID); !known {
			respondWithError(c, http.StatusNotFound, route, "menu item not found")
			return
		}

		sid, form, ok := sessionForm(c, reg, route)
		if !ok {
			return
		}
		apply(form, uri.ID)
		persist(c.Request.Context(), reg, sid, route)

		c.JSON(http.StatusOK, form.View())
	}
}

func UpdateCustomer(reg *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /api/order/customer"
		defer handlePanic(c, route)

		var req updateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		sid, form, ok := sessionForm(c, reg, route)
		if !ok {
			return
		}
		if req.Name != nil {
			form.SetName(*req.Name)
		}
		if req.Phone != nil {
			form.SetPhone(*req.Phone)
		}
		if req.Address != nil {
			form.SetAddress(*req.Address)
		}
		persist(c.Request.Context(), reg, sid, route)

		c.JSON(http.StatusOK, form.View())
	}
}

func SubmitOrder(reg *session.Registry, sender order.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/order/submit"
		defer handlePanic(c, route)

		sid, form, ok := sessionForm(c, reg, route)
		if !ok {
			return
		}

		result := submit(c, route, form, sender)
		persist(c.Request.Context(), reg, sid, route)

		switch {
		case result.status == http.StatusOK:
			c.JSON(http.StatusOK, gin.H{"message": result.notice.Message})
		case result.field != "":
			c.JSON(result.status, gin.H{"error": result.notice.Message, "field": result.field})
		default:
			c.JSON(result.status, gin.H{"error": result.notice.Message})
		}
	}
}

func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
