// Package app assembles the marketplace from its configuration.
package app

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fbay/internal/clock"
	"fbay/internal/config"
	"fbay/internal/lock"
	"fbay/internal/notify"
	"fbay/internal/repositories"
	"fbay/internal/services"
	"fbay/pkg/rabbitmq"
)

// Container holds the wired repositories and services.
type Container struct {
	Config config.Config
	DB     *gorm.DB
	Clock  clock.Clock

	Users   repositories.UserRepository
	Items   repositories.ItemRepository
	Queries repositories.QueryRepository

	Dispatcher   *notify.Dispatcher
	AuthService  *services.AuthService
	UserService  *services.UserService
	ItemService  *services.ItemService
	BidService   *services.BidService
	QueryService *services.QueryService
	SweepService *services.SweepService

	deliverer notify.Deliverer
	locker    lock.Locker
	closers   []func() error
}

// Option overrides a dependency of the Container.
type Option func(*Container)

// WithDB uses db instead of opening the configured database.
func WithDB(db *gorm.DB) Option {
	return func(c *Container) { c.DB = db }
}

// WithClock sets the time source for bids and item views.
func WithClock(clk clock.Clock) Option {
	return func(c *Container) { c.Clock = clk }
}

// WithDeliverer sends notifications through d instead of the configured
// mail transport.
func WithDeliverer(d notify.Deliverer) Option {
	return func(c *Container) { c.deliverer = d }
}

// WithLocker sets the sweep lock.
func WithLocker(l lock.Locker) Option {
	return func(c *Container) { c.locker = l }
}

// NewContainer connects the configured backends and builds every service.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) init() error {
	if c.DB == nil {
		db, err := repositories.Open(c.Config.DatabaseDriver, c.Config.DatabaseDSN)
		if err != nil {
			return err
		}
		c.DB = db
		c.closers = append(c.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	}
	if c.Config.AutoMigrate {
		if err := repositories.Migrate(c.DB); err != nil {
			return err
		}
	}
	if c.Clock == nil {
		c.Clock = clock.System()
	}
	if c.deliverer == nil {
		d, closer, err := NewDeliverer(c.Config)
		if err != nil {
			return err
		}
		c.deliverer = d
		if closer != nil {
			c.closers = append(c.closers, closer)
		}
	}
	if c.locker == nil {
		l, closer, err := NewLocker(c.Config)
		if err != nil {
			return err
		}
		c.locker = l
		if closer != nil {
			c.closers = append(c.closers, closer)
		}
	}

	c.Users = repositories.NewGORMUserRepository(c.DB)
	c.Items = repositories.NewGORMItemRepository(c.DB)
	c.Queries = repositories.NewGORMQueryRepository(c.DB)

	c.Dispatcher = notify.NewDispatcher(c.deliverer, notify.Templates{
		SiteName: c.Config.MailSiteName,
		Currency: c.Config.MailCurrency,
	})
	c.AuthService = services.NewAuthService(c.Users, c.Dispatcher, c.Config.JWTSecret, c.Config.TokenTTL)
	c.UserService = services.NewUserService(c.Users)
	c.ItemService = services.NewItemService(c.Items)
	c.BidService = services.NewBidService(c.Items, c.Clock)
	c.QueryService = services.NewQueryService(c.Queries, c.Items)
	c.SweepService = services.NewSweepService(c.Items, c.Dispatcher, c.locker)
	return nil
}

// Close releases the connections opened by NewContainer, newest first.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// DirectDeliverer returns the transport that actually sends mail: SMTP in
// smtp mode; in print mode the log, except for permitted recipients which
// still go out over SMTP.
func DirectDeliverer(cfg config.Config) (notify.Deliverer, error) {
	smtpConfig := notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	}
	if cfg.MailMode == config.MailModeSMTP {
		return notify.NewSMTPDeliverer(smtpConfig), nil
	}
	if len(cfg.MailPermitted) == 0 {
		return notify.LogDeliverer{}, nil
	}
	permitted, err := notify.NewPermittedDeliverer(cfg.MailPermitted, notify.NewSMTPDeliverer(smtpConfig), notify.LogDeliverer{})
	if err != nil {
		return nil, err
	}
	return permitted, nil
}

// NewDeliverer returns the deliverer used by the API and the sweep. With
// MAIL_QUEUE set, messages are handed to RabbitMQ for the mailer worker and
// the returned closer shuts the connection.
func NewDeliverer(cfg config.Config) (notify.Deliverer, func() error, error) {
	if !cfg.MailQueue {
		d, err := DirectDeliverer(cfg)
		return d, nil, err
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.MailQueueName})
	if err != nil {
		return nil, nil, err
	}
	return notify.NewQueueDeliverer(client), client.Close, nil
}

// NewLocker returns a Redis lock when REDIS_URL is set and an in-process
// lock otherwise.
func NewLocker(cfg config.Config) (lock.Locker, func() error, error) {
	if cfg.RedisURL == "" {
		return lock.NewLocalLocker(), nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	return lock.NewRedisLocker(client, cfg.SweepLockTTL), client.Close, nil
}
