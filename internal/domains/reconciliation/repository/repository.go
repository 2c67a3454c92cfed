package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"cumbrecita/infras/otel"
	"cumbrecita/infras/postgres"
	"cumbrecita/internal/domains/reconciliation/model"
	"cumbrecita/shared/constant"

	"github.com/rs/zerolog/log"
)

type Reconciliation interface {
	Insert(ctx context.Context, record model.Record) error
	GetAll(ctx context.Context, onlyUnresolved bool, limit, offset int) ([]model.Record, error)
	Count(ctx context.Context, onlyUnresolved bool) (int, error)
	MarkResolved(ctx context.Context, id string) (bool, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reconciliation {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, record model.Record) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(`
		INSERT INTO %s (id, payment_id, reservation_id, hospedaje_id, kind, message, resolved, created_at, modified_at)
		VALUES (:id, :payment_id, :reservation_id, :hospedaje_id, :kind, :message, :resolved, :created_at, :modified_at)`,
		model.TableName,
	)

	if _, err = r.db.Write.NamedExecContext(ctx, query, record); err != nil {
		log.Error().Err(err).Str("paymentId", record.PaymentID).Msg("failed to insert inconsistency record")

		return fmt.Errorf("failed to insert inconsistency record: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetAll(ctx context.Context, onlyUnresolved bool, limit, offset int) (records []model.Record, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT * FROM %s", model.TableName)
	if onlyUnresolved {
		query += " WHERE resolved = FALSE"
	}
	query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"

	err = r.db.Read.SelectContext(ctx, &records, query, limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list inconsistency records")

		return nil, fmt.Errorf("failed to list inconsistency records: %w", err)
	}

	return records, nil
}

func (r *repositoryImpl) Count(ctx context.Context, onlyUnresolved bool) (count int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", model.TableName)
	if onlyUnresolved {
		query += " WHERE resolved = FALSE"
	}

	err = r.db.Read.GetContext(ctx, &count, query)
	if err != nil {
		log.Error().Err(err).Msg("failed to count inconsistency records")

		return 0, fmt.Errorf("failed to count inconsistency records: %w", err)
	}

	return count, nil
}

func (r *repositoryImpl) MarkResolved(ctx context.Context, id string) (updated bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".MarkResolved")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("UPDATE %s SET resolved = TRUE, modified_at = NOW() WHERE id = $1 AND resolved = FALSE", model.TableName)

	result, err := r.db.Write.ExecContext(ctx, query, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to resolve inconsistency record")

		return false, fmt.Errorf("failed to resolve inconsistency record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}
