package router

import (
	"github.com/fundledger/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the HTTP handlers served under the versioned API
type Handlers struct {
	Investor      *handler.InvestorHandler
	Import        *handler.ImportHandler
	ImportHistory *handler.ImportHistoryHandler
	System        *handler.SystemHandler
}

// APIGroups builds the domain groups of the fund ledger API.
// uploadMiddleware runs only in front of the CSV upload.
func APIGroups(h Handlers, uploadMiddleware ...gin.HandlerFunc) []*DomainGroup {
	investors := NewDomainGroup("investors", "/investors")
	investors.POST("", h.Investor.CreateInvestor).
		GET("", h.Investor.ListInvestors).
		GET("/:id", h.Investor.GetInvestor)

	commitments := NewDomainGroup("commitments", "/investment-commitments")
	commitments.POST("", h.Investor.CreateCommitment)

	upload := NewDomainGroup("upload", "/upload-csv")
	upload.Use(uploadMiddleware...)
	upload.POST("", h.Import.UploadCSV)

	imports := NewDomainGroup("imports", "/imports")
	imports.GET("", h.ImportHistory.ListHistory).
		GET("/:id", h.ImportHistory.GetHistory).
		GET("/:id/errors", h.ImportHistory.GetErrors)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	return []*DomainGroup{investors, commitments, upload, imports, system}
}

// RegisterAPI registers every fund ledger route on r
func RegisterAPI(r *Router, h Handlers, uploadMiddleware ...gin.HandlerFunc) *Router {
	for _, g := range APIGroups(h, uploadMiddleware...) {
		r.Register(g)
	}
	return r
}
