package cmd

import (
	"log/slog"

	"fulfillment/internal/adapters/out/courier"
	"fulfillment/internal/adapters/out/customers"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/mail"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/notifications"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	verifier   services.PaymentSignatureVerifier
	reconciler services.StatusReconciler

	trackingProvider ports.TrackingProvider
	publisher        *kafka.Publisher
	dispatcher       *notifications.Dispatcher
	jobManager       *jobs.JobManager
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	dispatcher := notifications.NewDispatcher(
		mail.NewSMTPSender(config.SMTPAddr, config.SMTPFrom, config.SMTPUser, config.SMTPPassword),
		customers.NewClient(config.CustomerServiceURL),
		logger,
	)

	root := CompositionRoot{
		gormDB:           gormDB,
		uowFactory:       *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:           logger,
		verifier:         services.NewPaymentSignatureVerifier(config.PaymentGatewaySecret),
		reconciler:       services.NewStatusReconciler(),
		trackingProvider: courier.NewClient(config.CourierAPIURL),
		publisher:        kafka.NewPublisher([]string{config.KafkaHost}, config.KafkaOrderChangedTopic),
		dispatcher:       dispatcher,
	}

	root.jobManager = jobs.NewJobManager(
		root.CreateReconcileAllTrackingCommandHandler(),
		root.CreateReconcileTrackingCommandHandler(),
		logger,
	)

	return root
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	return commands.NewCheckoutCommandHandler(c.orderUoWFactory(), c.dispatcher)
}

func (c *CompositionRoot) CreateVerifyPaymentCommandHandler() commands.VerifyPaymentCommandHandler {
	return commands.NewVerifyPaymentCommandHandler(c.orderUoWFactory(), c.verifier, c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateChangeStatusCommandHandler() commands.ChangeStatusCommandHandler {
	return commands.NewChangeStatusCommandHandler(
		c.orderUoWFactory(), c.dispatcher, c.publisher, c.jobManager.Poller(), c.logger)
}

func (c *CompositionRoot) CreateReconcileTrackingCommandHandler() commands.ReconcileTrackingCommandHandler {
	return commands.NewReconcileTrackingCommandHandler(
		c.orderUoWFactory(),
		c.trackingProvider,
		c.reconciler,
		c.dispatcher,
		c.publisher,
		c.logger,
	)
}

func (c *CompositionRoot) CreateReconcileAllTrackingCommandHandler() commands.ReconcileAllTrackingCommandHandler {
	return commands.NewReconcileAllTrackingCommandHandler(
		c.orderUoWFactory(),
		c.CreateReconcileTrackingCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return c.jobManager
}

// Shutdown drains in-flight notifications and closes the Kafka writer.
func (c *CompositionRoot) Shutdown() {
	c.dispatcher.Wait()
	if err := c.publisher.Close(); err != nil {
		c.logger.Error("failed to close kafka publisher", "error", err)
	}
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
