package models

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists display statuses in export rank order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusActive,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Order is the flat rental view model.
type Order struct {
	ID            string      `json:"id"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	EquipmentName string      `json:"equipmentName"`
	Quantity      int         `json:"quantity"`
	StartDate     string      `json:"startDate"`
	EndDate       string      `json:"endDate"`
	TotalPrice    float64     `json:"totalPrice"`
	Status        OrderStatus `json:"status"`
	OrderDate     string      `json:"orderDate"`
}

// OrderForm is the edit-order form as submitted by the dashboard.
type OrderForm struct {
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	EquipmentName string      `json:"equipmentName"`
	Quantity      int         `json:"quantity"`
	StartDate     string      `json:"startDate"`
	EndDate       string      `json:"endDate"`
	TotalPrice    float64     `json:"totalPrice"`
	Status        OrderStatus `json:"status" binding:"required,oneof=pending active completed cancelled"`
}

type OrderFilter struct {
	Status string `form:"status"`
	Search string `form:"search"`
}

type OrderStats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Active       int     `json:"active"`
	Completed    int     `json:"completed"`
	TotalRevenue float64 `json:"totalRevenue"`
}
