package main

import (
	"fmt"

	cartsvc "ecomStore/business/cart"
	orderssvc "ecomStore/business/orders"
	productsvc "ecomStore/business/product"
	usersvc "ecomStore/business/user"
	"ecomStore/internal/repository/jsonstore"
	"ecomStore/internal/repository/notification"
	psqlRepo "ecomStore/internal/repository/postgres"
	"ecomStore/pkg/config"
	"ecomStore/pkg/database"
	"ecomStore/pkg/logger"
)

type productStore interface {
	productsvc.ProductRepository
	orderssvc.ProductRepository
}

type cartStore interface {
	cartsvc.CartRepository
	orderssvc.CartRepository
}

// repositories is one storage backend's full set of repositories.
type repositories struct {
	users    usersvc.UserRepository
	otps     usersvc.OTPRepository
	products productStore
	cart     cartStore
	orders   orderssvc.OrdersRepository
	tx       usersvc.Transactor
	close    func() error
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case "json":
		store, err := jsonstore.Open(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		logger.Info("Using JSON record store", "dir", store.Dir())

		return &repositories{
			users:    jsonstore.NewUserRepository(store),
			otps:     jsonstore.NewOTPRepository(store),
			products: jsonstore.NewProductRepository(store),
			cart:     jsonstore.NewCartRepository(store),
			orders:   jsonstore.NewOrdersRepository(store),
			tx:       store,
			close:    func() error { return nil },
		}, nil

	case "postgres":
		db, err := database.InitPostgres(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("Database connected successfully")

		return &repositories{
			users:    psqlRepo.NewUserRepository(db),
			otps:     psqlRepo.NewOTPRepository(db),
			products: psqlRepo.NewProductRepository(db),
			cart:     psqlRepo.NewCartRepository(db),
			orders:   psqlRepo.NewOrdersRepository(db),
			tx:       psqlRepo.NewTransactor(db),
			close:    func() error { return database.ClosePostgres(db) },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func newMailer(cfg *config.Config) usersvc.NotificationRepository {
	switch cfg.Mail.Provider {
	case "mailjet":
		return notification.NewMailjetRepository(notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mail.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mail.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mail.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mail.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mail.Mailjet.MailjetSenderName,
		})
	case "mailgun":
		return notification.NewMailgunRepository(notification.MailgunConfig{
			Domain:      cfg.Mail.Mailgun.Domain,
			APIKey:      cfg.Mail.Mailgun.APIKey,
			SenderEmail: cfg.Mail.Mailgun.SenderEmail,
			SenderName:  cfg.Mail.Mailgun.SenderName,
		})
	default:
		return notification.NewLogRepository()
	}
}
