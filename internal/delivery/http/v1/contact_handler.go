package v1

import (
	"errors"
	"net/http"

	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	MsgContactSent    = "Message sent successfully!"
	MsgInvalidPayload = "Invalid request body. Expected JSON with name, email and message."
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, mw ...gin.HandlerFunc) *ContactHandler {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	public.POST("/contact", append(mw, handler.SubmitContact)...)
	return handler
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Sanitizes and validates a contact message, then forwards it to the site owner.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      413      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(apperror.TooLarge(middleware.MsgPayloadTooLarge))
			return
		}
		c.Error(apperror.BadRequest(MsgInvalidPayload))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, MsgContactSent, nil)
}
