package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/utils"
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
	oracle llm.Oracle
	redis  *redis.Client
	db     *gorm.DB
	config *config.Config
}

func NewHealthHandler(oracle llm.Oracle, rdb *redis.Client, db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		oracle: oracle,
		redis:  rdb,
		db:     db,
		config: cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	if handler.oracle == nil {
		checks["oracle"] = ReadinessCheck{
			Status:  "failed",
			Message: "LLM oracle not initialized",
		}
		allChecksPass = false
	} else {
		checks["oracle"] = ReadinessCheck{Status: "ok"}
	}

	if handler.redis == nil {
		checks["redis"] = ReadinessCheck{
			Status:  "failed",
			Message: "Redis client not initialized",
		}
		allChecksPass = false
	} else if err := handler.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = ReadinessCheck{
			Status:  "failed",
			Message: "Redis unreachable: " + err.Error(),
		}
		allChecksPass = false
	} else {
		checks["redis"] = ReadinessCheck{Status: "ok"}
	}

	if handler.db == nil {
		checks["database"] = ReadinessCheck{
			Status:  "failed",
			Message: "Database not initialized",
		}
		allChecksPass = false
	} else if sqlDB, err := handler.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = ReadinessCheck{
			Status:  "failed",
			Message: "Database unreachable",
		}
		allChecksPass = false
	} else {
		checks["database"] = ReadinessCheck{Status: "ok"}
	}

	if handler.config == nil {
		checks["configuration"] = ReadinessCheck{
			Status:  "failed",
			Message: "Configuration not loaded",
		}
		allChecksPass = false
	} else {
		checks["configuration"] = ReadinessCheck{Status: "ok"}
	}

	response := ReadinessResponse{
		Service: "interview",
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
