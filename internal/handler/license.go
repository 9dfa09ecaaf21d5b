package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mariusw/photoframe/internal/license"
)

type activateRequest struct {
	LicenseKey string `json:"licenseKey"`
}

// HandleLicenseStatus derives the current license state from the stored key
// and the first-launch date. Nothing is persisted on this path.
func (h *Handler) HandleLicenseStatus(c echo.Context) error {
	firstLaunch, hasFirstLaunch := h.store.FirstLaunchDate()
	status := license.DeriveStatus(h.store.LicenseKey(), firstLaunch, hasFirstLaunch)
	return c.JSON(http.StatusOK, status)
}

// HandleLicenseActivate validates and persists a license key.
func (h *Handler) HandleLicenseActivate(c echo.Context) error {
	var req activateRequest
	if err := c.Bind(&req); err != nil || req.LicenseKey == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "License key is required"})
	}

	if !license.ValidateKey(req.LicenseKey) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid license key"})
	}

	if err := h.store.SaveLicenseKey(req.LicenseKey); err != nil {
		log.Printf("Error: Failed to save license key: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to activate license"})
	}

	log.Printf("PRO license activated")
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "PRO license activated",
		"isPro":   true,
	})
}

type expireTrialRequest struct {
	DaysAgo int `json:"daysAgo"`
}

// HandleExpireTrial backdates the first-launch date to simulate trial aging.
// Registered only in dev mode.
func (h *Handler) HandleExpireTrial(c echo.Context) error {
	req := expireTrialRequest{DaysAgo: license.TrialDays + 1}
	if err := c.Bind(&req); err != nil || req.DaysAgo <= 0 {
		req.DaysAgo = license.TrialDays + 1
	}

	past := time.Now().Add(-time.Duration(req.DaysAgo) * 24 * time.Hour)
	if err := h.store.SetFirstLaunchDate(past); err != nil {
		log.Printf("Error: Failed to set trial expiration: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to set trial expiration"})
	}

	log.Printf("Trial backdated %d days to %s", req.DaysAgo, past.Format(time.RFC3339))
	return c.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"firstLaunchDate": past.Format(time.RFC3339),
	})
}

// HandleResetTrial resets the first-launch date to now. Registered only in
// dev mode.
func (h *Handler) HandleResetTrial(c echo.Context) error {
	now := time.Now()
	if err := h.store.SetFirstLaunchDate(now); err != nil {
		log.Printf("Error: Failed to reset trial: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to reset trial"})
	}

	log.Printf("Trial reset to %s", now.Format(time.RFC3339))
	return c.JSON(http.StatusOK, map[string]any{
		"success":         true,
		"firstLaunchDate": now.Format(time.RFC3339),
	})
}
