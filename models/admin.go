package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message,omitempty"`
}

// AdminProfile is the backend shape of GET/PATCH /admin/profile.
type AdminProfile struct {
	AdminID   int     `json:"adminId"`
	Nama      string  `json:"nama"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Address   *string `json:"address,omitempty"`
	Role      string  `json:"role"`
}

// Profile is the flattened profile the dashboard renders and edits.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender" binding:"omitempty,oneof=male female"`
	Address   string `json:"address"`
}

type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Address   string `json:"address"`
}

type DashboardStats struct {
	TotalProducts  int `json:"totalProducts"`
	ActiveRentals  int `json:"activeRentals"`
	TotalCustomers int `json:"totalCustomers"`
	PendingOrders  int `json:"pendingOrders"`
	TotalOrders    int `json:"totalOrders"`
}

type BestSeller struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"`
	Image string `json:"image"`
}
