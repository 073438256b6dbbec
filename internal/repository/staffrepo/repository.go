package staffrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gostore/internal/domain"
	apperror "gostore/internal/errors"
	"gostore/internal/pkg/database"
	"gostore/internal/pkg/logger"
)

const staffColumns = `id, name, email, password_hash, role, location_id, created_at, updated_at`

// StaffRepository implementa a interface domain.StaffRepository
type StaffRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStaffRepository cria uma nova instância do StaffRepository, injetando o DB.
func NewStaffRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *StaffRepository {
	return &StaffRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(row rowScanner) (domain.Staff, error) {
	var (
		s          domain.Staff
		role       string
		locationID sql.NullString
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash, &role, &locationID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.Staff{}, err
	}
	s.Role = domain.StaffRole(role)
	s.LocationID = locationID.String
	return s, nil
}

// Save insere um novo funcionário. E-mail duplicado vira ConflictError.
func (r *StaffRepository) Save(ctx context.Context, staff domain.Staff) (domain.Staff, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}

	_, err := r.DB.ExecContext(ctxTimeout, `
        INSERT INTO staff (id, name, email, password_hash, role, location_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		staff.ID, staff.Name, strings.ToLower(staff.Email), staff.PasswordHash, string(staff.Role),
		sql.NullString{String: staff.LocationID, Valid: staff.LocationID != ""},
		staff.CreatedAt, staff.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Staff{}, apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", staff.Email))
		}
		if database.IsForeignKeyViolation(err) {
			return domain.Staff{}, apperror.NewReferencedEntityMissingError("location", staff.LocationID)
		}
		r.logger.Error("Falha ao inserir funcionário no DB.", err)
		return domain.Staff{}, apperror.NewDBError("Falha ao salvar funcionário", err)
	}

	r.logger.Info("Funcionário salvo com sucesso.", map[string]interface{}{"staff_id": staff.ID, "role": staff.Role})
	return staff, nil
}

// FindByEmail busca o funcionário pelo e-mail (sem diferenciar maiúsculas).
func (r *StaffRepository) FindByEmail(ctx context.Context, email string) (domain.Staff, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s, err := scanStaff(r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+staffColumns+` FROM staff WHERE email = $1`, strings.ToLower(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Staff{}, apperror.NewNotFoundError("Funcionário não encontrado.")
	}
	if err != nil {
		return domain.Staff{}, apperror.NewDBError("Falha ao buscar funcionário por email", err)
	}
	return s, nil
}

// FindByID busca o funcionário pelo ID.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (domain.Staff, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Staff{}, apperror.NewNotFoundError(fmt.Sprintf("Funcionário com ID %s não encontrado.", id))
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s, err := scanStaff(r.DB.QueryRowContext(ctxTimeout, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Staff{}, apperror.NewNotFoundError(fmt.Sprintf("Funcionário com ID %s não encontrado.", id))
	}
	if err != nil {
		return domain.Staff{}, apperror.NewDBError("Falha ao buscar funcionário", err)
	}
	return s, nil
}

// FindAll lista todos os funcionários.
func (r *StaffRepository) FindAll(ctx context.Context) ([]domain.Staff, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+staffColumns+` FROM staff ORDER BY name, id`)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar funcionários", err)
	}
	defer rows.Close()

	list := []domain.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear funcionário", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de funcionários", err)
	}
	return list, nil
}

// Exists informa se o funcionário existe.
func (r *StaffRepository) Exists(ctx context.Context, id string) (bool, error) {
	return database.Exists(ctx, r.DB, r.DBTimeout, "staff", id)
}
