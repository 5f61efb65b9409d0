package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/rifathmfm/portfolio-api/internal/content"
	"github.com/rifathmfm/portfolio-api/internal/content/repository"
	"github.com/rifathmfm/portfolio-api/internal/database"
)

// Seeds the document store with the portfolio's default content so a fresh
// deployment is not empty. Existing collections are left untouched.
func main() {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI is required")
	}
	databaseName := os.Getenv("MONGODB_DATABASE")
	if databaseName == "" {
		databaseName = "portfolio"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := database.ConnectMongo(ctx, mongoURI, 10*time.Second)
	if err != nil {
		log.Fatalf("cannot connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewMongoRepo(client.Database(databaseName))
	for collection, records := range defaults() {
		existing, err := repo.List(ctx, collection)
		if err != nil {
			log.Fatalf("list %s: %v", collection, err)
		}
		if len(existing) > 0 {
			log.Printf("%s: %d records already present, skipping", collection, len(existing))
			continue
		}
		for i := range records {
			if _, err := repo.Create(ctx, collection, &records[i]); err != nil {
				log.Fatalf("seed %s: %v", collection, err)
			}
		}
		log.Printf("%s: seeded %d records", collection, len(records))
	}
}

func defaults() map[string][]content.Record {
	return map[string][]content.Record{
		"skills": {
			{Title: "JavaScript", Level: 90},
			{Title: "React", Level: 85},
			{Title: "TypeScript", Level: 80},
			{Title: "Node.js", Level: 75},
			{Title: "Flutter", Level: 70},
			{Title: "Python", Level: 65},
			{Title: "Machine Learning", Level: 60},
			{Title: "Database Management", Level: 85},
		},
		"services": {
			{Title: "UI/UX Design", Description: "Crafting visually appealing and intuitive designs to enhance user experience.", Color: "blue", Icon: "paint-brush"},
			{Title: "Web Development", Description: "Developing responsive and high-performance web applications tailored to your needs.", Color: "green", Icon: "laptop-code"},
			{Title: "Mobile Development", Description: "Building seamless cross-platform mobile applications with exceptional performance.", Color: "purple", Icon: "mobile"},
			{Title: "Database Management", Description: "Designing scalable database solutions to securely manage your data.", Color: "red", Icon: "database"},
			{Title: "Cloud Services", Description: "Providing scalable cloud computing solutions to streamline your business operations.", Color: "yellow", Icon: "cloud"},
			{Title: "Machine Learning", Description: "Implementing advanced AI solutions to optimize processes and drive innovation.", Color: "pink", Icon: "robot"},
		},
		"projects": {
			{
				Title:        "E-Commerce Platform",
				Description:  "A fully functional e-commerce web application with payment integration.",
				Details:      "Complete e-commerce solution with product browsing, user authentication, cart management and payment gateway integration, plus an admin panel for products and orders.",
				Technologies: []string{"React", "Node.js", "MongoDB"},
				Link:         "#",
			},
			{
				Title:        "Mobile Food Delivery App",
				Description:  "Cross-platform mobile application for food delivery services.",
				Details:      "Food delivery app with real-time order tracking, push notifications and payment options, built for scalability.",
				Technologies: []string{"Flutter", "Firebase"},
				Link:         "#",
			},
		},
	}
}
