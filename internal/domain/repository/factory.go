package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Customers() CustomerRepository
	Rewards() RewardRepository
	Promos() PromoRepository
	Streaks() StreakRepository
	Notifications() NotificationRepository
	Alerts() AlertRepository
}
