package main

import (
	"context"
	"log"
	"time"

	"github.com/akulikov/class_registration/internal/config"
	"github.com/akulikov/class_registration/internal/db"
	"github.com/akulikov/class_registration/internal/models"
	"github.com/akulikov/class_registration/internal/repo"
	"github.com/akulikov/class_registration/internal/search"
)

var catalog = []models.Class{
	{ClassID: "IFT 511", ClassName: "Analysis of Algorithms", Credits: 3, Description: "Design and analysis of algorithms, complexity classes and lower bounds."},
	{ClassID: "IFT 520", ClassName: "Advanced Information Systems Security", Credits: 3, Description: "Security models, applied cryptography and network defense."},
	{ClassID: "IFT 530", ClassName: "Advanced Database Management Systems", Credits: 3, Description: "Query optimization, transactions and distributed data stores."},
	{ClassID: "IFT 540", ClassName: "Information Systems Development", Credits: 3, Description: "Lifecycle models, requirements engineering and system design."},
	{ClassID: "IFT 593", ClassName: "Applied Project", Credits: 3, Description: "Capstone applied project under faculty supervision."},
	{ClassID: "IFT 598", ClassName: "Special Topics", Credits: 4, Description: "Rotating topics in information technology."},
	{ClassID: "CSE 511", ClassName: "Data Processing at Scale", Credits: 4, Description: "Large scale data processing systems and frameworks."},
	{ClassID: "CSE 546", ClassName: "Cloud Computing", Credits: 4, Description: "Cloud architectures, elasticity and serverless platforms."},
}

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	store := &repo.GormRepo{DB: gormDB}
	for i := range catalog {
		if err := store.UpsertClass(ctx, &catalog[i]); err != nil {
			log.Fatalf("seed class %s: %v", catalog[i].ClassID, err)
		}
	}
	log.Printf("seeded %d classes", len(catalog))

	if cfg.ESURL == "" {
		return
	}
	esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	for _, class := range catalog {
		if err := search.IndexClass(ctx, esClient, class); err != nil {
			log.Fatalf("index class %s: %v", class.ClassID, err)
		}
	}
	log.Printf("indexed %d classes", len(catalog))
}
