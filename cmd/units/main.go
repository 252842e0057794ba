package main

import (
	"storago/internal/bookings/repository"
	"storago/internal/units/handler"
	unitsrepo "storago/internal/units/repository"
	"storago/internal/units/service"
	"storago/internal/units/validator"
	"storago/pkg/app"
	"storago/pkg/config"
)

const ServiceName = "units"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Storage Units service")
	unitService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewStorageUnitHandler(unitService, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.StorageUnitService {
	unitValidator := validator.NewStorageUnitValidator(cfg.Log)
	unitRepo := unitsrepo.NewMongoStorageUnitRepository(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)

	unitService := service.NewStorageUnitService(
		unitRepo,
		bookingRepo,
		unitValidator,
		cfg,
	)

	cfg.Log.Info("Storage unit service initialized", "database", cfg.MongoDatabaseName)
	return unitService
}
