package domain

import "time"

// FeedState состояние фида синхронизации
type FeedState string

const (
	FeedIdle    FeedState = "idle"
	FeedSyncing FeedState = "syncing"
	FeedFailed  FeedState = "failed"
)

// SyncFeed внешний календарь, синхронизируемый с леджером одного апартамента
type SyncFeed struct {
	ID           int64
	ApartmentID  int64
	RemoteURL    string
	State        FeedState
	LastSyncedAt *time.Time
	LastError    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeedEvent занятый интервал из внешнего календаря со стабильным UID
type FeedEvent struct {
	UID   string
	Range DateRange
}
