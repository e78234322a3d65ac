package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmlrSF/portfolio-client/internal/gallery/domain"
)

// sortColumns whitelists the sortable fields; API names map to columns.
// User input never reaches the ORDER BY clause directly.
var sortColumns = map[string]string{
	"featured":    "featured",
	"createdAt":   "created_at",
	"completedAt": "completed_at",
	"likes":       "likes",
	"views":       "views",
	"title":       "title",
}

const projectColumns = `id, title, category, description, image_url,
	coalesce(thumbnail_url, ''), likes, views, featured, status, tags,
	coalesce(client_name, ''), coalesce(project_url, ''),
	coalesce(completed_at, created_at), created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// ListParams describes one page of the gallery listing.
type ListParams struct {
	Status    domain.Status
	Category  string // empty means no category filter
	Page      int
	Limit     int
	SortBy    []string
	SortOrder []string
}

// List returns one page of projects matching the filter plus the total
// match count. Count and page run concurrently against the same filter;
// there is no transaction, so the total may be momentarily stale under
// concurrent writes.
func (r *Repo) List(ctx context.Context, p ListParams) ([]domain.Project, int64, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 12
	}

	where := "where status = $1"
	args := []any{string(p.Status)}
	if p.Category != "" {
		where += " and category = $2"
		args = append(args, p.Category)
	}

	orderBy := buildOrderBy(p.SortBy, p.SortOrder)
	offset := (p.Page - 1) * p.Limit

	pageQuery := fmt.Sprintf(
		"select %s from projects %s order by %s limit $%d offset $%d",
		projectColumns, where, orderBy, len(args)+1, len(args)+2)
	countQuery := "select count(*) from projects " + where

	var (
		wg       sync.WaitGroup
		items    []domain.Project
		total    int64
		pageErr  error
		countErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		items, pageErr = r.queryProjects(ctx, pageQuery, append(args, p.Limit, offset)...)
	}()
	go func() {
		defer wg.Done()
		countErr = r.db.QueryRow(ctx, countQuery, args...).Scan(&total)
	}()
	wg.Wait()

	if pageErr != nil {
		return nil, 0, fmt.Errorf("list projects: %w", pageErr)
	}
	if countErr != nil {
		return nil, 0, fmt.Errorf("count projects: %w", countErr)
	}
	return items, total, nil
}

// buildOrderBy zips sort fields with sort orders positionally; a missing
// order defaults to ascending. Unknown fields are skipped.
func buildOrderBy(fields, orders []string) string {
	var parts []string
	for i, f := range fields {
		col, ok := sortColumns[strings.TrimSpace(f)]
		if !ok {
			continue
		}
		dir := "asc"
		if i < len(orders) && strings.EqualFold(strings.TrimSpace(orders[i]), "desc") {
			dir = "desc"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		return "featured desc, created_at desc"
	}
	return strings.Join(parts, ", ")
}

func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	q := fmt.Sprintf("select %s from projects where id = $1", projectColumns)

	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// Create inserts a new project. A missing ID is generated; zero counters
// and timestamps are filled by the database defaults.
func (r *Repo) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = domain.StatusPublished
	}
	if p.CompletedAt.IsZero() {
		p.CompletedAt = time.Now().UTC()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	const q = `
insert into projects
	(id, title, category, description, image_url, thumbnail_url, likes, views,
	 featured, status, tags, client_name, project_url, completed_at)
values ($1, $2, $3, $4, $5, nullif($6, ''), $7, $8, $9, $10, $11, nullif($12, ''), nullif($13, ''), $14)
returning created_at, updated_at;
`
	err := r.db.QueryRow(ctx, q,
		p.ID, p.Title, string(p.Category), p.Description, p.ImageURL, p.ThumbnailURL,
		p.Likes, p.Views, p.Featured, string(p.Status), p.Tags,
		p.Client, p.ProjectURL, p.CompletedAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// IncrementViews atomically bumps the view counter and returns the new value.
func (r *Repo) IncrementViews(ctx context.Context, id string) (int64, error) {
	const q = `
update projects
set views = views + 1, updated_at = now()
where id = $1
returning views;
`
	var views int64
	err := r.db.QueryRow(ctx, q, id).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrProjectNotFound
		}
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// ApplyLike atomically applies a like (+1) or unlike (-1) and returns the
// new count. The counter is floored at zero, so repeated unlikes cannot
// drive it negative.
func (r *Repo) ApplyLike(ctx context.Context, id string, liked bool) (int64, error) {
	delta := int64(-1)
	if liked {
		delta = 1
	}

	const q = `
update projects
set likes = greatest(likes + $2, 0), updated_at = now()
where id = $1
returning likes;
`
	var likes int64
	err := r.db.QueryRow(ctx, q, id, delta).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrProjectNotFound
		}
		return 0, fmt.Errorf("apply like: %w", err)
	}
	return likes, nil
}

func (r *Repo) queryProjects(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Category, &p.Description, &p.ImageURL,
		&p.ThumbnailURL, &p.Likes, &p.Views, &p.Featured, &p.Status, &p.Tags,
		&p.Client, &p.ProjectURL, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
