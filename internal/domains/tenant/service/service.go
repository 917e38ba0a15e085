package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"tally/config"
	"tally/infras/otel"
	"tally/internal/domains/tenant/model"
	"tally/internal/domains/tenant/model/dto"
	"tally/internal/domains/tenant/repository"
	"tally/shared"
	"tally/shared/cache"
	"tally/shared/constant"
	gDto "tally/shared/dto"
	"tally/shared/failure"
	"tally/shared/password"
)

const (
	cacheGetTenant    = "tenant:get"
	cacheGetAllTenant = "tenant:gets"
	cacheCountTenant  = "tenant:count"
)

type Tenant interface {
	Create(ctx context.Context, req dto.CreateTenantRequest) (dto.TenantResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTenantsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TenantResponse, error)
	Update(ctx context.Context, req dto.UpdateTenantRequest, id string) error
	Delete(ctx context.Context, id string) error

	// VerifyAPIKey authenticates a tenant-scoped request. It returns the
	// tenant when the key matches and the tenant is active.
	VerifyAPIKey(ctx context.Context, tenantID, apiKey string) (model.Tenant, error)
}

type serviceImpl struct {
	repo  repository.Tenant
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Tenant, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Tenant {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTenantRequest) (res dto.TenantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	apiKeyHash, err := password.Hash(req.APIKey)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash tenant api key")

		return res, fmt.Errorf("failed to hash tenant api key: %w", err)
	}

	tenant := req.ToModel(user, apiKeyHash)

	if err = s.repo.Insert(ctx, tenant); err != nil {
		log.Error().Err(err).Msg("failed to create tenant")

		return res, fmt.Errorf("failed to create tenant: %w", err)
	}

	res.FromModel(tenant)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTenant)
		shared.InvalidateCaches(c, s.cache, cacheCountTenant)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTenantsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTenant, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tenants")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tenants")

		return res, fmt.Errorf("failed to count tenants: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tenants")

		return res, fmt.Errorf("failed to get tenants: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tenants to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTenant, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tenant count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tenants")

		return res, fmt.Errorf("failed to count tenants: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tenant count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TenantResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTenant, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tenant")

		return res, nil
	}

	tenant, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tenant")

		return res, fmt.Errorf("failed to get tenant: %w", err)
	}

	if tenant.ID == constant.Empty {
		return res, failure.NotFound("tenant not found") // nolint:wrapcheck
	}

	res.FromModel(tenant)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tenant to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTenantRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateTenantRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if tenant exists")

		return fmt.Errorf("failed to check if tenant exists: %w", err)
	}

	if !exist {
		log.Error().Msg("tenant not found")

		return failure.NotFound("tenant not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update tenant")

		return fmt.Errorf("failed to update tenant: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTenant, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete tenant from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTenant)
		shared.InvalidateCaches(c, s.cache, cacheCountTenant)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if tenant exists")

		return fmt.Errorf("failed to check if tenant exists: %w", err)
	}

	if !exist {
		log.Error().Msg("tenant not found")

		return failure.NotFound("tenant not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete tenant")

		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTenant, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete tenant from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTenant)
		shared.InvalidateCaches(c, s.cache, cacheCountTenant)
	}()

	return nil
}

func (s *serviceImpl) VerifyAPIKey(ctx context.Context, tenantID, apiKey string) (tenant model.Tenant, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifyAPIKey")
	defer scope.End()
	defer scope.TraceIfError(err)

	tenant, err = s.repo.Get(ctx, shared.FilterByID(tenantID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tenant")

		return model.Tenant{}, fmt.Errorf("failed to get tenant: %w", err)
	}

	if tenant.ID == constant.Empty || !tenant.Active {
		return model.Tenant{}, failure.Unauthorized("invalid tenant credentials") // nolint:wrapcheck
	}

	if err := password.Verify(apiKey, tenant.APIKeyHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return model.Tenant{}, failure.Unauthorized("invalid tenant credentials") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to verify tenant api key")

		return model.Tenant{}, fmt.Errorf("failed to verify tenant api key: %w", err)
	}

	return tenant, nil
}
