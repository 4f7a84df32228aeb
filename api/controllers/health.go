package controllers

import (
	"net/http"

	"github.com/haneul-labs/fassto-gateway/api/responses"
	"github.com/haneul-labs/fassto-gateway/pkg/config"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fassto-Gateway-Env", cfg.App.Env)
		responses.Write(w, http.StatusOK, responses.Info("live", nil))
	}
}

func HealthReady(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Fassto-Gateway-Env", cfg.App.Env)
		responses.Write(w, http.StatusOK, responses.Info("ready", nil))
	}
}
