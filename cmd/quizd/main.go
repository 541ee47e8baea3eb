package main

import (
	"log"

	"gorm.io/gorm"

	"vmxio.com/cert-quiz/internal/api"
	"vmxio.com/cert-quiz/internal/cms"
	"vmxio.com/cert-quiz/internal/config"
	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/metrics"
	"vmxio.com/cert-quiz/internal/seeddata"
	"vmxio.com/cert-quiz/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 1) DB
	db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// 2) Seed (if empty)
	if isEmpty, _ := store.IsQuestionTableEmpty(db); isEmpty {
		if err := seed(db, cfg.SeedFile); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	// 3) Question source
	m := metrics.New()
	var src content.Source = store.NewQuestions(db)
	if cfg.Source == config.SourceCMS {
		client, err := cms.New(cfg.CMS.ServiceDomain, cfg.CMS.APIKey, cms.WithObserver(m.CMSRequest))
		if err != nil {
			log.Fatalf("cms: %v", err)
		}
		src = content.NewCMSSource(client)
	}

	// 4) Router
	r := api.NewRouter(api.Deps{
		Source:        src,
		Sittings:      store.NewSittings(db),
		Learners:      store.NewLearners(db),
		Metrics:       m,
		PageSize:      cfg.PageSize,
		SecureCookies: cfg.SecureCookies,
		CORSOrigins:   cfg.CORSOrigins,
	})

	log.Printf("Listening on :%s (source=%s, db=%s, SecureCookies=%v)", cfg.Port, cfg.Source, cfg.DBDriver, cfg.SecureCookies)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func seed(db *gorm.DB, file string) error {
	tracks := make([]string, 0, len(content.Tracks()))
	for _, t := range content.Tracks() {
		tracks = append(tracks, t.Key)
	}
	n, err := store.SeedBuiltin(db, tracks)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d built-in questions", n)

	if file == "" {
		return nil
	}
	in, err := seeddata.Load(file)
	if err != nil {
		return err
	}
	n, err = store.SeedQuestions(db, "", in)
	if err != nil {
		return err
	}
	log.Printf("Seeded %d questions from %s", n, file)
	return nil
}
