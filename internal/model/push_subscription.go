package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Lines []SubscriptionLine `gorm:"foreignKey:Endpoint;references:Endpoint;constraint:OnDelete:CASCADE"`
}

// SubscriptionLine marks a production line whose downtime alerts a subscription receives.
type SubscriptionLine struct {
	Endpoint string `gorm:"primaryKey"`
	LineID   int    `gorm:"primaryKey;autoIncrement:false"`
}
