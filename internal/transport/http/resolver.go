package httptransport

import (
	"context"
	"errors"
	"fmt"
	"time"

	contracthandler "leasehold/internal/contract/handler"
	contractmodels "leasehold/internal/contract/models"
	propertymodels "leasehold/internal/property/models"
	tenantmodels "leasehold/internal/tenant/models"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/platform/sentinel"
)

// PropertyRegistry is the slice of the property store the transport needs to
// confirm a property exists before a contract references it.
type PropertyRegistry interface {
	FindByID(ctx context.Context, propertyID id.PropertyID) (*propertymodels.Property, error)
}

// OwnerRegistry confirms an owner exists.
type OwnerRegistry interface {
	FindByID(ctx context.Context, ownerID id.OwnerID) (*propertymodels.Owner, error)
}

// TenantRegistry confirms a tenant exists.
type TenantRegistry interface {
	FindByID(ctx context.Context, tenantID id.TenantID) (*tenantmodels.Tenant, error)
}

// registryCheckedContractService decorates the contract service with
// existence checks against the property, tenant and owner registries.
// Contracts hold ids, not entities, so the transport is where dangling
// references get refused.
type registryCheckedContractService struct {
	contracthandler.Service

	properties PropertyRegistry
	tenants    TenantRegistry
	owners     OwnerRegistry
}

func newRegistryCheckedContractService(inner contracthandler.Service, properties PropertyRegistry, tenants TenantRegistry, owners OwnerRegistry) *registryCheckedContractService {
	return &registryCheckedContractService{
		Service:    inner,
		properties: properties,
		tenants:    tenants,
		owners:     owners,
	}
}

func (s *registryCheckedContractService) CreateContract(ctx context.Context, propertyID id.PropertyID, tenantID id.TenantID, ownerID id.OwnerID,
	startDate time.Time, leaseTermMonths int, monthlyRent float64, paymentTerms string) (*contractmodels.RentalContract, error) {
	if _, err := s.properties.FindByID(ctx, propertyID); err != nil {
		return nil, registryErr(err, "property", propertyID.String())
	}
	if _, err := s.tenants.FindByID(ctx, tenantID); err != nil {
		return nil, registryErr(err, "tenant", tenantID.String())
	}
	if _, err := s.owners.FindByID(ctx, ownerID); err != nil {
		return nil, registryErr(err, "owner", ownerID.String())
	}
	return s.Service.CreateContract(ctx, propertyID, tenantID, ownerID, startDate, leaseTermMonths, monthlyRent, paymentTerms)
}

func registryErr(err error, kind, ref string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s %s is not registered", kind, ref))
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("resolve %s %s", kind, ref))
}
