package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/defectflow/projects-service/internal/projects/domain"
)

// Repo provides persistence operations for projects on top of PostgreSQL.
// Uniqueness of the business code is enforced by a partial unique index, so
// concurrent writers racing on the same code are resolved by the database:
// exactly one wins, the rest observe ErrDuplicateCode.
type Repo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectColumns = `id, name, code, address, customer_name, stage, status, manager_id, start_date, end_date, created_at, updated_at`

// uniqueViolation is the PostgreSQL error code for unique constraint breaks.
const uniqueViolation = "23505"

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p          domain.Project
		start, end *time.Time
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Code, &p.Address, &p.CustomerName,
		&p.Stage, &p.Status, &p.ManagerID, &start, &end,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if start != nil {
		p.StartDate = &domain.Date{Time: *start}
	}
	if end != nil {
		p.EndDate = &domain.Date{Time: *end}
	}
	return &p, nil
}

func datePtr(d *domain.Date) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

// Insert creates a project with a generated id and store-assigned timestamps.
func (r *Repo) Insert(ctx context.Context, np domain.NewProject) (*domain.Project, error) {
	q := fmt.Sprintf(`
insert into projects (id, name, code, address, customer_name, stage, status, manager_id, start_date, end_date)
values ($1, $2, $3, $4, $5, $6::project_stage, $7::project_status, $8, $9, $10)
returning %s;
`, projectColumns)

	p, err := scanProject(r.db.QueryRow(ctx, q,
		uuid.New(), np.Name, np.Code, np.Address, np.CustomerName,
		string(np.Stage), string(np.Status), np.ManagerID, datePtr(np.StartDate), datePtr(np.EndDate),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateCode
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// GetByID returns the project or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	q := fmt.Sprintf(`select %s from projects where id = $1;`, projectColumns)

	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// likeEscaper makes user input a literal substring inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns projects matching all supplied predicates, ordered by
// creation time (id breaks ties) so pagination is stable within a call.
func (r *Repo) List(ctx context.Context, f domain.ListFilter, skip, limit int) ([]domain.Project, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != nil {
		where = append(where, "status = "+arg(string(*f.Status))+"::project_status")
	}
	if f.Stage != nil {
		where = append(where, "stage = "+arg(string(*f.Stage))+"::project_stage")
	}
	if f.CustomerName != nil {
		where = append(where, "customer_name ilike "+arg("%"+likeEscaper.Replace(*f.CustomerName)+"%"))
	}
	if f.ManagerID != nil {
		where = append(where, "manager_id = "+arg(*f.ManagerID))
	}

	q := "select " + projectColumns + " from projects"
	if len(where) > 0 {
		q += " where " + strings.Join(where, " and ")
	}
	q += " order by created_at, id offset " + arg(skip) + " limit " + arg(limit) + ";"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// Update applies the non-nil fields of the patch and refreshes updated_at.
// An empty patch still advances updated_at.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.Project, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	setCast := func(column, pgType string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d::%s", column, len(args), pgType))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Code != nil {
		set("code", *patch.Code)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.CustomerName != nil {
		set("customer_name", *patch.CustomerName)
	}
	if patch.Stage != nil {
		setCast("stage", "project_stage", string(*patch.Stage))
	}
	if patch.Status != nil {
		setCast("status", "project_status", string(*patch.Status))
	}
	if patch.ManagerID != nil {
		set("manager_id", *patch.ManagerID)
	}
	if patch.StartDate != nil {
		set("start_date", patch.StartDate.Time)
	}
	if patch.EndDate != nil {
		set("end_date", patch.EndDate.Time)
	}

	q := fmt.Sprintf(`update projects set %s where id = $1 returning %s;`,
		strings.Join(sets, ", "), projectColumns)

	p, err := scanProject(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateCode
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}
