// Command generate_demo creates a demo database with a sample catalog of
// public domain books, a demo reader account and a few reviews.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mujeebkhan77/digital-Library/internal/auth"
	"github.com/mujeebkhan77/digital-Library/internal/config"
	"github.com/mujeebkhan77/digital-Library/internal/database"
	booksRepo "github.com/mujeebkhan77/digital-Library/internal/database/books"
	reviewsRepo "github.com/mujeebkhan77/digital-Library/internal/database/reviews"
	"github.com/mujeebkhan77/digital-Library/internal/entities"
	"github.com/mujeebkhan77/digital-Library/internal/scheduler"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	authService := auth.NewService(db.DB, cfg.Auth)

	admin, err := authService.CreateAdmin("admin", "admin@example.com", "admin-demo-password")
	if err != nil {
		log.Fatalf("Failed to create demo admin: %v", err)
	}
	log.Printf("Created admin account %q (password: admin-demo-password)", admin.Username)

	reader, err := authService.CreateUser("reader", "reader@example.com", "reader-demo-password")
	if err != nil {
		log.Fatalf("Failed to create demo reader: %v", err)
	}
	log.Printf("Created reader account %q (password: reader-demo-password)", reader.Username)

	books := booksRepo.NewRepository(db.DB)
	seeded := make([]entities.Book, 0, len(demoBooks()))
	for _, book := range demoBooks() {
		b := book
		if err := books.Create(&b); err != nil {
			log.Printf("Failed to save book %s: %v", b.Title, err)
			continue
		}
		seeded = append(seeded, b)
		log.Printf("Saved: %s by %s (%s)", b.Title, b.Author, b.Type)
	}

	reviews := reviewsRepo.NewRepository(db.DB)
	for i, b := range seeded {
		if b.Type != entities.BookTypeFree {
			continue
		}
		review := &entities.Review{
			UserID:  reader.ID,
			BookID:  b.ID,
			Rating:  3 + i%3,
			Comment: "Part of the demo catalog.",
		}
		if err := reviews.Upsert(review); err != nil {
			log.Printf("Failed to save review for %s: %v", b.Title, err)
		}
	}

	if err := scheduler.NewStatsScheduler(db.DB, "").Recompute(); err != nil {
		log.Printf("Failed to recompute catalog stats: %v", err)
	}

	log.Println("Demo database generated successfully!")
}

func demoBooks() []entities.Book {
	return []entities.Book{
		{
			Title:       "Pride and Prejudice",
			Author:      "Jane Austen",
			Description: "A classic novel of manners following Elizabeth Bennet.",
			Category:    "Literature",
			Type:        entities.BookTypeFree,
			PDFPath:     "pride-and-prejudice.pdf",
			IsApproved:  true,
		},
		{
			Title:       "Relativity: The Special and General Theory",
			Author:      "Albert Einstein",
			Description: "Einstein's own popular exposition of relativity.",
			Category:    "Science",
			Type:        entities.BookTypeFree,
			PDFPath:     "relativity.pdf",
			IsApproved:  true,
		},
		{
			Title:       "The Art of War",
			Author:      "Sun Tzu",
			Description: "An ancient treatise on strategy and conflict.",
			Category:    "History",
			Type:        entities.BookTypeFree,
			PDFPath:     "art-of-war.pdf",
			IsApproved:  true,
		},
		{
			Title:       "Structure and Interpretation of Demo Programs",
			Author:      "Demo Press",
			Description: "A paid sample title used to exercise the checkout flow.",
			Category:    "Computer Science",
			Type:        entities.BookTypePaid,
			PDFPath:     "sicdp.pdf",
			IsApproved:  true,
		},
		{
			Title:       "Frankenstein",
			Author:      "Mary Shelley",
			Description: "The modern Prometheus, awaiting moderator approval.",
			Category:    "Fiction",
			Type:        entities.BookTypeFree,
			PDFPath:     "frankenstein.pdf",
			IsApproved:  false,
		},
	}
}
