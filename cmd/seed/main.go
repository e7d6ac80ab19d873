package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bookclub/internal/config"
	"bookclub/internal/db"
	"bookclub/internal/model"
	"bookclub/internal/repository"
)

// Development seed data. The script is idempotent: existing rows are left alone.
var seedBooks = []model.Book{
	{Title: "The Go Programming Language", Author: "Alan A. A. Donovan", ISBN: "978-0134190440", Genre: "Computing", PublicationYear: 2015, Publisher: "Addison-Wesley", TotalCopies: 3},
	{Title: "Pride and Prejudice", Author: "Jane Austen", ISBN: "978-0141439518", Genre: "Classic", PublicationYear: 1813, Publisher: "Penguin Classics", TotalCopies: 2},
	{Title: "The Name of the Wind", Author: "Patrick Rothfuss", ISBN: "978-0756404741", Genre: "Fantasy", PublicationYear: 2007, Publisher: "DAW Books", TotalCopies: 4},
}

var seedReaders = []model.Reader{
	{Name: "Amara Perera", Email: "amara.perera@example.com", Phone: "+94 71 555 0101", Address: "12 Temple Road, Colombo"},
	{Name: "Nuwan Silva", Email: "nuwan.silva@example.com", Phone: "+94 77 555 0102", Address: "45 Lake View, Kandy"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.Reader{},
		&model.LendingTransaction{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)
	books := repository.NewBookRepository(gormDB)
	readers := repository.NewReaderRepository(gormDB)

	if err := seedLibrarian(ctx, users); err != nil {
		log.Fatalf("Failed to seed librarian: %v", err)
	}

	created := 0
	for i := range seedBooks {
		book := seedBooks[i]
		if _, err := books.FindByISBN(ctx, book.ISBN); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check book %s: %v", book.ISBN, err)
		}
		book.AvailableCopies = book.TotalCopies
		if err := books.Create(ctx, &book); err != nil {
			log.Fatalf("Failed to create book %s: %v", book.ISBN, err)
		}
		created++
	}
	log.Printf("Seeded %d new books (%d already present)", created, len(seedBooks)-created)

	created = 0
	for i := range seedReaders {
		reader := seedReaders[i]
		if _, err := readers.FindByEmail(ctx, reader.Email); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to check reader %s: %v", reader.Email, err)
		}
		if err := readers.Create(ctx, &reader); err != nil {
			log.Fatalf("Failed to create reader %s: %v", reader.Email, err)
		}
		created++
	}
	log.Printf("Seeded %d new readers (%d already present)", created, len(seedReaders)-created)

	log.Println("Seed completed")
}

// seedLibrarian creates the default development account if it is missing.
func seedLibrarian(ctx context.Context, users repository.UserRepository) error {
	const (
		name     = "Head Librarian"
		email    = "librarian@bookclub.local"
		password = "changeme"
	)

	if _, err := users.FindByEmail(ctx, email); err == nil {
		log.Println("Default librarian already present")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleLibrarian,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("Created default librarian %q (password %q)", email, password)
	return nil
}
