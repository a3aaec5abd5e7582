package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyahq/tripdesk/internal/common/dto"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// ListClients returns non-archived clients in the principal's scope.
func (h *Handler) ListClients(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var q dto.ClientListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	clients, err := h.clients.List(c.Request.Context(), p, &q)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

// GetClient returns a client with booking history, documents and payments.
func (h *Handler) GetClient(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.clients.Get(c.Request.Context(), p, id)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateClient edits client fields and tags.
func (h *Handler) UpdateClient(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorx.Send(c, errorx.Validation(err))
		return
	}

	client, err := h.clients.Update(c.Request.Context(), p, id, &req)
	if err != nil {
		errorx.Send(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// ArchiveClient soft-deletes a client.
func (h *Handler) ArchiveClient(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.clients.Archive(c.Request.Context(), p, id); err != nil {
		errorx.Send(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
