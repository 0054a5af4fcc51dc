package domain

import "time"

// OrderStatus описывает серверный жизненный цикл заказа; клиент статусы не
// переводит, только отображает и фильтрует по ним.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// OrderItem — строка заказа, формируется из позиции корзины.
type OrderItem struct {
	VariantID  string
	Quantity   int
	UnitPrice  string
	TotalPrice string
}

// Contact — контактные данные получателя.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Address — адрес доставки в свободной для бизнес-правил форме.
type Address struct {
	City    string
	Street  string
	Zip     string
	Comment string
}

// OrderDraft — данные оформления, которые дополняют содержимое корзины.
type OrderDraft struct {
	Contact        Contact
	Address        Address
	DeliveryMethod string
}

// Order создаётся транзакционно из текущего содержимого корзины; после
// создания со стороны клиента неизменяем.
type Order struct {
	ID             string
	Number         string
	Status         OrderStatus
	Contact        Contact
	Address        Address
	DeliveryMethod string
	Items          []OrderItem
	Total          string
	CreatedAt      time.Time
}

// OrderPage — страница списка заказов с пагинацией.
type OrderPage struct {
	Orders  []Order
	Page    int
	PerPage int
	Total   int
}
