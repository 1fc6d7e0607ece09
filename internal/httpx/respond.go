package httpx

import "github.com/gin-gonic/gin"

// Envelope is the response shape shared by every service:
// {success, message?, data?, pagination?} on success, {success:false, error}
// on failure.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func OK(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

func OKPage(c *gin.Context, code int, data any, p Pagination) {
	c.JSON(code, Envelope{Success: true, Data: data, Pagination: &p})
}

func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Success: false, Error: message})
}
