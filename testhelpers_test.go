//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mystic-tours/service-booking/internal/application"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	tourDomain "github.com/mystic-tours/service-booking/internal/domain/tour"
	bookingEvents "github.com/mystic-tours/service-booking/internal/events"
	"github.com/mystic-tours/service-booking/internal/events/schema"
	"github.com/mystic-tours/service-booking/internal/platform/kafka"
	"github.com/mystic-tours/service-booking/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking service components.
type bookingStack struct {
	Bookings        *application.BookingService
	Assignments     *application.AssignmentService
	Drivers         *application.DriverService
	Tours           *application.TourService
	Consumer        *bookingEvents.NotifierCommandConsumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_booking sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.TourModel{},
		&repository.SiteImageModel{},
		&repository.DriverModel{},
		&repository.TourBookingModel{},
		&repository.TransferBookingModel{},
		&repository.AssignmentModel{},
	))
	// AutoMigrate cannot express the partial unique index that backs
	// assignment exclusivity, so apply it directly.
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_assignments_active_booking
		 ON driver_assignments (booking_id) WHERE status = 'active'`,
	).Error)

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	// Pre-create required topics.
	createTopics(t, kafkaBrokers, schema.TopicBookingEvents, schema.TopicNotifierCommands)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires up the full booking service stack.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	tourRepo := repository.NewGormTourRepository(db)
	tourBookingRepo := repository.NewGormTourBookingRepository(db)
	transferBookingRepo := repository.NewGormTransferBookingRepository(db)
	driverRepo := repository.NewGormDriverRepository(db)
	assignmentRepo := repository.NewGormAssignmentRepository(db)

	pricing := bookingDomain.NewStandardPricingStrategy()
	producer := kafka.NewProducer(brokers, logger)

	bookingSvc := application.NewBookingService(tourBookingRepo, transferBookingRepo, tourRepo, pricing, producer, logger)
	assignmentSvc := application.NewAssignmentService(assignmentRepo, driverRepo, tourBookingRepo, transferBookingRepo, producer, logger)
	driverSvc := application.NewDriverService(driverRepo, logger)
	tourSvc := application.NewTourService(tourRepo, logger)

	groupID := fmt.Sprintf("test-booking-%s", uuid.New().String()[:8])
	consumer := bookingEvents.NewNotifierCommandConsumer(brokers, groupID, bookingSvc, logger)

	return &bookingStack{
		Bookings:        bookingSvc,
		Assignments:     assignmentSvc,
		Drivers:         driverSvc,
		Tours:           tourSvc,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedPublishedTour inserts a catalog entry bookings can be taken against.
func seedPublishedTour(t *testing.T, db *gorm.DB, unitPrice float64) uuid.UUID {
	t.Helper()
	tr, err := tourDomain.NewTour(
		"Blue Mountains Hike",
		fmt.Sprintf("blue-mountains-hike-%s", uuid.New().String()[:8]),
		"A full day hike through the Blue Mountains.",
		"Blue Mountains",
		8, unitPrice, 20, "",
	)
	require.NoError(t, err)
	require.NoError(t, repository.NewGormTourRepository(db).Save(context.Background(), tr))
	return tr.ID()
}

// publishNotifierCommand publishes a chat-bot command CloudEvent to Kafka.
func publishNotifierCommand(t *testing.T, brokers []string, commandType, bookingRef string) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	cmd := schema.NotifierCommand{
		Command:    commandType,
		BookingRef: bookingRef,
		IssuedBy:   "staff-telegram",
		IssuedAt:   time.Now().UTC(),
	}
	ce, err := kafka.NewCloudEvent("service-notifier", commandType, cmd)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), schema.TopicNotifierCommands, ce)
	require.NoError(t, err, "failed to publish notifier command")
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.TourBookingModel {
	t.Helper()
	var result repository.TourBookingModel
	require.Eventually(t, func() bool {
		var model repository.TourBookingModel
		err := db.Where("id = ?", bookingID).First(&model).Error
		if err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
