//go:build ignore

package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/mwhite/waterline/internal/database"
	"github.com/mwhite/waterline/internal/database/models"
	"github.com/mwhite/waterline/pkg/config"
	"github.com/mwhite/waterline/pkg/util"
)

func strPtr(s string) *string { return &s }

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	system := models.WaterSystem{
		Name:               "Cedar Valley Water District",
		PWSID:              "WA5304921",
		Population:         4800,
		ServiceConnections: 1650,
		SystemType:         models.SystemCommunity,
		Address:            "210 Mill Rd, Cedar Valley, WA",
		ContactName:        "R. Alvarez",
		ContactPhone:       "509-555-0142",
		ContactEmail:       "operations@cedarvalleywater.example",
	}
	if err := db.FirstOrCreate(&system, models.WaterSystem{PWSID: system.PWSID}).Error; err != nil {
		log.Fatalf("failed to seed water system: %v", err)
	}

	assets := []models.Asset{
		{
			Name:             "Well #2",
			Category:         models.CategorySource,
			Description:      "Primary production well, 320 ft",
			Location:         "Mill Rd pump house",
			InstallDate:      "1998-06-15",
			ExpectedLifespan: 40,
			Condition:        models.ConditionFair,
			ReplacementCost:  425000,
			Manufacturer:     strPtr("Layne"),
		},
		{
			Name:             "Hillcrest Storage Tank",
			Category:         models.CategoryStorage,
			Description:      "500k gallon welded steel reservoir",
			Location:         "Hillcrest Dr",
			InstallDate:      "1985-09-01",
			ExpectedLifespan: 60,
			Condition:        models.ConditionPoor,
			ReplacementCost:  1200000,
		},
		{
			Name:             "Booster Station A",
			Category:         models.CategoryPumping,
			Description:      "Twin 25 HP booster pumps, zone 2",
			Location:         "4th & Cedar",
			InstallDate:      "2011-04-20",
			ExpectedLifespan: 25,
			Condition:        models.ConditionGood,
			ReplacementCost:  180000,
			Manufacturer:     strPtr("Grundfos"),
			Model:            strPtr("CR 64-2"),
		},
		{
			Name:             "Chlorine Feed System",
			Category:         models.CategoryTreatment,
			Description:      "Sodium hypochlorite metering system",
			Location:         "Mill Rd pump house",
			InstallDate:      "2019-08-10",
			ExpectedLifespan: 15,
			Condition:        models.ConditionExcellent,
			ReplacementCost:  45000,
		},
		{
			Name:             "Main St PRV",
			Category:         models.CategoryValves,
			Description:      "6 in pressure reducing valve, zone 1/2 boundary",
			Location:         "Main St & River Rd",
			InstallDate:      "2003-03-30",
			ExpectedLifespan: 30,
			Condition:        models.ConditionCritical,
			ReplacementCost:  22000,
			Notes:            strPtr("Seat leakage observed during 2025 exercise program"),
		},
	}

	for i := range assets {
		if err := db.FirstOrCreate(&assets[i], models.Asset{Name: assets[i].Name}).Error; err != nil {
			log.Fatalf("failed to seed asset %q: %v", assets[i].Name, err)
		}
	}

	tasks := []models.MaintenanceTask{
		{
			AssetID:       assets[1].ID,
			Title:         "Tank interior inspection and spot coating",
			Description:   "Dive inspection of floor and lower shell, spot repair of coating failures",
			Type:          models.TypeInspection,
			Priority:      models.PriorityHigh,
			Status:        models.StatusScheduled,
			ScheduledDate: "2026-10-15",
		},
		{
			AssetID:       assets[4].ID,
			Title:         "Replace Main St PRV",
			Description:   "Full valve replacement, zone isolation required",
			Type:          models.TypeReplacement,
			Priority:      models.PriorityUrgent,
			Status:        models.StatusScheduled,
			ScheduledDate: "2026-08-01",
		},
		{
			AssetID:       assets[2].ID,
			Title:         "Annual pump service",
			Description:   "Bearing lubrication, seal check, vibration readings",
			Type:          models.TypePreventive,
			Priority:      models.PriorityMedium,
			Status:        models.StatusCompleted,
			ScheduledDate: "2026-03-10",
			CompletedDate: strPtr("2026-03-12"),
		},
	}

	for i := range tasks {
		if err := db.FirstOrCreate(&tasks[i], models.MaintenanceTask{Title: tasks[i].Title}).Error; err != nil {
			log.Fatalf("failed to seed task %q: %v", tasks[i].Title, err)
		}
	}

	logger.Info("seed complete",
		"assets", len(assets),
		"tasks", len(tasks),
		"system", system.Name,
	)
}
