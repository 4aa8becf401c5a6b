package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotely/internal/quotation/domain"
	"github.com/smallbiznis/quotely/pkg/db/pagination"
)

type quotationRequest struct {
	ID             string            `json:"id"`
	Number         string            `json:"number"`
	Date           *time.Time        `json:"date"`
	ExpirationDate *time.Time        `json:"expirationDate"`
	Client         domain.Client     `json:"client"`
	Items          []domain.LineItem `json:"items"`
	TaxPercentage  *float64          `json:"taxPercentage"`
	Status         domain.Status     `json:"status"`
	Notes          string            `json:"notes"`
	Terms          *string           `json:"terms"`
	CreatedAt      *time.Time        `json:"createdAt"`
}

func (r quotationRequest) toSaveRequest() domain.SaveRequest {
	client := r.Client
	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.TrimSpace(client.Email)
	return domain.SaveRequest{
		ID:             strings.TrimSpace(r.ID),
		Number:         strings.TrimSpace(r.Number),
		Date:           r.Date,
		ExpirationDate: r.ExpirationDate,
		Client:         client,
		Items:          r.Items,
		TaxPercentage:  r.TaxPercentage,
		Status:         domain.Status(strings.ToLower(strings.TrimSpace(string(r.Status)))),
		Notes:          r.Notes,
		Terms:          r.Terms,
		CreatedAt:      r.CreatedAt,
	}
}

func (s *Server) bindFilter(c *gin.Context) (domain.Filter, bool) {
	status, err := parseOptionalStatus(c.Query("status"))
	if err != nil {
		AbortWithError(c, err)
		return domain.Filter{}, false
	}
	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return domain.Filter{}, false
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return domain.Filter{}, false
	}
	return domain.Filter{
		Status:   status,
		Client:   strings.TrimSpace(c.Query("client")),
		DateFrom: from,
		DateTo:   to,
		Search:   strings.TrimSpace(c.Query("q")),
	}, true
}

func (s *Server) ListQuotations(c *gin.Context) {
	filter, ok := s.bindFilter(c)
	if !ok {
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	records, err := s.quotationSvc.List(c.Request.Context(), domain.ListRequest{Filter: filter})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	window, pageInfo, err := pagination.Paginate(records, page, func(q domain.Quotation) string { return q.ID })
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{
		"success": true,
		"data":    window,
		"count":   len(records),
	}
	if pageInfo != nil {
		resp["page_info"] = pageInfo
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateQuotation(c *gin.Context) {
	var req quotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.quotationSvc.Create(c.Request.Context(), req.toSaveRequest())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    resp,
		"message": "Cotización creada exitosamente",
	})
}

func (s *Server) GetQuotationByID(c *gin.Context) {
	resp, err := s.quotationSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (s *Server) UpdateQuotation(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.quotationSvc.Get(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	var req quotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.quotationSvc.Update(c.Request.Context(), id, req.toSaveRequest())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resp,
		"message": "Cotización actualizada exitosamente",
	})
}

func (s *Server) DeleteQuotation(c *gin.Context) {
	if err := s.quotationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cotización eliminada exitosamente",
	})
}

func (s *Server) GetQuotationStats(c *gin.Context) {
	filter, ok := s.bindFilter(c)
	if !ok {
		return
	}

	resp, err := s.quotationSvc.Stats(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

func (s *Server) GetNextQuotationNumber(c *gin.Context) {
	number, err := s.quotationSvc.NextNumber(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"number": number}})
}

func (s *Server) DownloadQuotationPDF(c *gin.Context) {
	doc, err := s.quotationSvc.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
