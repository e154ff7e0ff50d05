package handler

import "time"

type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required"`
	DeviceID string `json:"device_id" validate:"required,max=128"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	DeviceID  string    `json:"device_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type navigateRequest struct {
	Path string `json:"path" validate:"required,startswith=/,max=512"`
}

type routeResponse struct {
	DeviceID string `json:"device_id"`
	State    string `json:"state"`
	Path     string `json:"path"`
	Segment  string `json:"segment"`
}
