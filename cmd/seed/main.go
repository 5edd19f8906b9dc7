package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"resort/internal/config"
	"resort/internal/database"
	"resort/internal/domain/admin"
	"resort/internal/domain/booking"
	"resort/internal/domain/catalog"
	jwtsvc "resort/internal/pkg/jwt"
)

type seedRoom struct {
	req      catalog.CreateRoomRequest
	discount float64
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(&catalog.Room{}, &booking.Booking{}, &admin.AdminUser{}); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()

	// ================== ADMIN ==================
	admins := admin.NewService(admin.NewRepository(db), jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL))
	email := getEnv("SEED_ADMIN_EMAIL", "owner@example.com")
	password := getEnv("SEED_ADMIN_PASSWORD", "Passw0rd!")
	owner, created, err := admins.EnsureAdmin(ctx, email, password, "Amanpulo Owner", admin.RoleOwner)
	if err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	if created {
		log.Printf("Owner created: %s", owner.Email)
	} else {
		log.Printf("Owner already exists: %s", owner.Email)
	}

	// ================== ROOMS ==================
	rooms := catalog.NewService(catalog.NewRoomRepository(db))
	counts, err := rooms.CountRooms(ctx)
	if err != nil {
		log.Fatalf("count rooms: %v", err)
	}
	if counts.Total > 0 {
		log.Printf("Rooms already present (%d), skipping", counts.Total)
		return
	}

	now := time.Now().UTC()
	start, end := now.AddDate(0, 0, -1), now.AddDate(0, 2, 0)

	for _, s := range sampleRooms() {
		view, err := rooms.CreateRoom(ctx, s.req)
		if err != nil {
			log.Fatalf("create room %q: %v", s.req.Name, err)
		}
		if s.discount > 0 {
			if _, err := rooms.UpdateDiscount(ctx, view.ID, catalog.UpdateDiscountRequest{
				IsActive:   true,
				Percentage: s.discount,
				StartDate:  &start,
				EndDate:    &end,
			}); err != nil {
				log.Fatalf("discount room %q: %v", s.req.Name, err)
			}
		}
		log.Printf("  - %s: %.0f/night (%d available)", view.Name, view.Price, view.TotalRooms)
	}
	log.Println("Seed completed")
}

func sampleRooms() []seedRoom {
	basics := []string{"Complimentary WiFi", "Daily housekeeping", "Mini bar"}
	with := func(extra ...string) []string { return append(append([]string{}, basics...), extra...) }

	return []seedRoom{
		{req: catalog.CreateRoomRequest{
			Name: "Hillside Casita", Description: "Hilltop casita with a private sun deck and sea views.",
			Price: 1200, TotalRooms: 8, MaxGuests: 2, Category: catalog.CategoryCasita,
			Images:    []string{"https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=800"},
			Amenities: with("King-size bed", "Outdoor shower"),
		}, discount: 15},
		{req: catalog.CreateRoomRequest{
			Name: "Beach Casita", Description: "Casita on the white-sand beach with a shaded terrace.",
			Price: 1500, TotalRooms: 12, MaxGuests: 3, Category: catalog.CategoryCasita,
			Images:    []string{"https://images.unsplash.com/photo-1499793983690-e29da59ef1c2?w=800"},
			Amenities: with("Direct beach access", "Outdoor bathtub"),
		}},
		{req: catalog.CreateRoomRequest{
			Name: "Deluxe Pool Villa", Description: "One-bedroom villa with a private plunge pool.",
			Price: 2800, TotalRooms: 6, MaxGuests: 4, Category: catalog.CategoryVilla,
			Images:    []string{"https://images.unsplash.com/photo-1571896349842-33c89424de2d?w=800"},
			Amenities: with("Private pool", "In-villa dining"),
		}, discount: 10},
		{req: catalog.CreateRoomRequest{
			Name: "Two-Bedroom Pool Villa", Description: "Family villa with two suites around a larger pool.",
			Price: 4200, TotalRooms: 4, MaxGuests: 6, Category: catalog.CategoryVilla,
			Images:    []string{"https://images.unsplash.com/photo-1613490493576-7fde63acd811?w=800"},
			Amenities: with("Private pool", "Butler service"),
		}},
		{req: catalog.CreateRoomRequest{
			Name: "Treetop Pavilion", Description: "Raised pavilion in the forest canopy.",
			Price: 1800, TotalRooms: 4, MaxGuests: 2, Category: catalog.CategoryPavilion,
			Images:    []string{"https://images.unsplash.com/photo-1520250497591-112f2f40a3f4?w=800"},
			Amenities: with("Canopy deck", "Rain shower"),
		}},
		{req: catalog.CreateRoomRequest{
			Name: "Royal Suite", Description: "The estate's largest residence with staff quarters.",
			Price: 8500, TotalRooms: 2, MaxGuests: 8, Category: catalog.CategorySuite,
			Images:    []string{"https://images.unsplash.com/photo-1578683010236-d716f9a3f461?w=800"},
			Amenities: with("Private chef", "Butler service", "Infinity pool"),
		}},
	}
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
