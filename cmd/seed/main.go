// Seeds the projects table with sample data for local development.
package main

import (
	"context"
	"log"
	"time"

	"github.com/AmlrSF/portfolio-client/config"
	"github.com/AmlrSF/portfolio-client/internal/bootstrap"
	"github.com/AmlrSF/portfolio-client/internal/gallery/domain"
	"github.com/AmlrSF/portfolio-client/internal/gallery/repository"
)

const schema = `
create table if not exists projects (
	id            text primary key,
	title         text not null,
	category      text not null,
	description   text not null,
	image_url     text not null,
	thumbnail_url text,
	likes         bigint not null default 0,
	views         bigint not null default 0,
	featured      boolean not null default false,
	status        text not null default 'published',
	tags          text[] not null default '{}',
	client_name   text,
	project_url   text,
	completed_at  timestamptz,
	created_at    timestamptz not null default now(),
	updated_at    timestamptz not null default now()
);
create index if not exists projects_status_category_idx on projects (status, category);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.DSN()})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(ctx, schema); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	repo := repository.NewRepo(db)
	for _, p := range samples() {
		if err := repo.Create(ctx, &p); err != nil {
			log.Fatalf("failed to seed %q: %v", p.Title, err)
		}
		log.Printf("seeded %q (%s)", p.Title, p.ID)
	}
}

func samples() []domain.Project {
	return []domain.Project{
		{
			Title:       "Atlas Coffee Rebrand",
			Category:    domain.CategoryBranding,
			Description: "Full identity refresh for a specialty roaster.",
			ImageURL:    "https://cdn.example.com/projects/atlas-coffee.jpg",
			Featured:    true,
			Tags:        []string{"identity", "packaging", "logo"},
			Client:      "Atlas Coffee Co.",
		},
		{
			Title:       "Jazz Nights Poster Series",
			Category:    domain.CategoryPoster,
			Description: "Monthly gig posters for a downtown jazz club.",
			ImageURL:    "https://cdn.example.com/projects/jazz-nights.jpg",
			Tags:        []string{"#print#typography", "music"},
		},
		{
			Title:       "Harvest Market Campaign",
			Category:    domain.CategorySocial,
			Description: "Seasonal social campaign for a farmers market collective.",
			ImageURL:    "https://cdn.example.com/projects/harvest-market.jpg",
			Tags:        []string{"instagram", "campaign"},
		},
		{
			Title:       "Wildflowers Field Guide",
			Category:    domain.CategoryIllustration,
			Description: "Botanical illustrations for a pocket field guide.",
			ImageURL:    "https://cdn.example.com/projects/wildflowers.jpg",
			Featured:    true,
			Tags:        []string{"botanical", "editorial"},
			ProjectURL:  "https://example.com/wildflowers",
		},
		{
			Title:       "Neon District Gig Poster",
			Category:    domain.CategoryPoster,
			Description: "Limited screen print for a synthwave festival.",
			ImageURL:    "https://cdn.example.com/projects/neon-district.jpg",
			Status:      domain.StatusDraft,
			Tags:        []string{"screenprint", "neon"},
		},
	}
}
