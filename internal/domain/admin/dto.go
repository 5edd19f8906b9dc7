package admin

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type LoginResult struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type Profile struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"lastLogin"`
}

type DashboardRooms struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

type DashboardBookings struct {
	Total     int64 `json:"total"`
	Confirmed int64 `json:"confirmed"`
	Pending   int64 `json:"pending"`
	Recent    int64 `json:"recent"`
	Today     int64 `json:"today"`
}

type Dashboard struct {
	Rooms        DashboardRooms    `json:"rooms"`
	Bookings     DashboardBookings `json:"bookings"`
	TotalRevenue float64           `json:"totalRevenue"`
}
