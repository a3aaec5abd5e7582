package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// ListBookings returns a filtered page of bookings within the principal's
// scope.
func (h *Handler) ListBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var q dto.BookingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	page, err := h.bookings.List(c.Request.Context(), p, &q)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateBooking books a trip, upserting the client record.
func (h *Handler) CreateBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), p, &req)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.BookingCreated()
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBooking returns the booking detail with derived figures.
func (h *Handler) GetBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.bookings.Get(c.Request.Context(), p, id)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateBooking overwrites booking and client fields.
func (h *Handler) UpdateBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	booking, err := h.bookings.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ArchiveBooking soft-deletes a booking.
func (h *Handler) ArchiveBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.bookings.Archive(c.Request.Context(), p, id); err != nil {
		errorx.Send(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddPayment records money received against a booking.
func (h *Handler) AddPayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	payment, err := h.bookings.AddPayment(c.Request.Context(), p, id, &req)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.PaymentRecorded(payment.Method, payment.Currency, payment.Amount)
	}
	c.JSON(http.StatusCreated, payment)
}

// ArchivePayment soft-deletes a payment.
func (h *Handler) ArchivePayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.bookings.ArchivePayment(c.Request.Context(), p, id); err != nil {
		errorx.Send(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDocuments returns the documents attached to a booking.
func (h *Handler) ListDocuments(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	docs, err := h.documents.ListForBooking(c.Request.Context(), p, id)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// UploadDocument attaches an uploaded file to a booking.
func (h *Handler) UploadDocument(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var form dto.UploadDocumentForm
	if err := c.ShouldBind(&form); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorx.Send(c, errorx.ErrInvalidInput.WithDetail("reason", "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		errorx.Send(c, errorx.ErrInvalidInput.WithDetail("reason", "file could not be read"))
		return
	}
	defer file.Close()

	doc, err := h.documents.Upload(c.Request.Context(), p, id, &form, fileHeader.Filename, file)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.DocumentUploaded(doc.DocType)
	}
	c.JSON(http.StatusCreated, doc)
}
