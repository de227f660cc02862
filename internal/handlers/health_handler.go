package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/gabeliss/kandidly/internal/llm"
	"github.com/gabeliss/kandidly/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

type HealthHandler struct {
	db       *gorm.DB
	provider llm.Provider
}

func NewHealthHandler(db *gorm.DB, provider llm.Provider) *HealthHandler {
	return &HealthHandler{db: db, provider: provider}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	if handler.db == nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: "database not initialized"}
		allChecksPass = false
	} else if sqlDB, err := handler.db.DB(); err != nil || sqlDB.Ping() != nil {
		checks["database"] = ReadinessCheck{Status: "failed", Message: "database unreachable"}
		allChecksPass = false
	} else {
		checks["database"] = ReadinessCheck{Status: "ok"}
	}

	// analysis is optional; readiness reports it but never fails on it
	if handler.provider == nil {
		checks["analysis"] = ReadinessCheck{Status: "failed", Message: "AI provider not configured"}
	} else {
		checks["analysis"] = ReadinessCheck{Status: "ok"}
	}

	status := "ready"
	code := http.StatusOK
	if !allChecksPass {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}

	utils.JSON(writer, code, ReadinessResponse{
		Status:  status,
		Service: "interview",
		Checks:  checks,
	})
}
