package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Items() ItemRepository
	Organizations() LabelRepository
	ItemTypes() LabelRepository
	Tables() TableRepository
	Carts() CartRepository
	Orders() OrderRepository
	Analytics() AnalyticsRepository
}
