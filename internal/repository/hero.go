package repository

import (
	"context"

	"github.com/PixVoxGames/0pg/internal/domain"
)

// Hero defines the data access interface for hero state. All mutations go
// through a HeroTx so a command or timer firing can re-read the latest
// persisted state and re-check preconditions before applying effects.
type Hero interface {
	Create(ctx context.Context, hero *domain.Hero) error
	GetByID(ctx context.Context, id string) (*domain.Hero, error)
	GetByChatID(ctx context.Context, chatID int64) (*domain.Hero, error)
	GetActivity(ctx context.Context, id string) (*domain.Activity, error)
	GetMobInstance(ctx context.Context, id int64) (*domain.MobInstance, error)
	ListOwnedItems(ctx context.Context, heroID string) ([]domain.OwnedItem, error)
	BeginTx(ctx context.Context) (HeroTx, error)
}

// HeroTx is the unit of work for hero-scoped mutations. GetHeroForUpdate
// locks the hero row, which serializes concurrent commands and timer
// firings for the same hero without contending across heroes.
type HeroTx interface {
	Tx
	GetHeroForUpdate(ctx context.Context, id string) (*domain.Hero, error)
	UpdateHero(ctx context.Context, hero *domain.Hero) error

	CreateMobInstance(ctx context.Context, inst *domain.MobInstance) error
	GetMobInstance(ctx context.Context, id int64) (*domain.MobInstance, error)
	UpdateMobInstanceHP(ctx context.Context, id int64, hpValue int) error
	DeleteMobInstance(ctx context.Context, id int64) error

	CreateItemInstance(ctx context.Context, inst *domain.ItemInstance) error

	CreateActivity(ctx context.Context, act *domain.Activity) error
	DeleteActivity(ctx context.Context, id string) error
	DeletePendingFightStarts(ctx context.Context, heroID string) error
}
