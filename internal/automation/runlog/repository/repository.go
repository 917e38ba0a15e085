package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"tally/infras/otel"
	"tally/infras/postgres"
	"tally/internal/automation/runlog/model"
	gDto "tally/shared/dto"
	gRepo "tally/shared/repository"
)

type Run interface {
	Insert(ctx context.Context, model model.Run) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Run, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Run, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Run]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Run {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Run](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
