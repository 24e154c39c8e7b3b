package postgres

import (
	"context"

	"membership/internal/domain/entity"
	domainerrors "membership/internal/domain/errors"
	"membership/internal/domain/repository"
	"membership/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// memberRepository implements repository.MemberRepository using GORM.
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository is the constructor for memberRepository.
func NewMemberRepository(db *gorm.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

// Create inserts the member and copies the store-assigned columns back onto it.
func (repo *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	memberM := fromMemberDomain(member)

	// Only the id is returned by the insert; the defaulted columns are re-read from
	// the primary so they come back in their column types on every driver.
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Create(memberM).Error; err != nil {
		return classifyCreateError(err)
	}

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Take(memberM, memberM.ID).Error; err != nil {
		return domainerrors.NewStoreError("reload member", err)
	}

	member.ID = memberM.ID
	member.Role = roleFromModel(memberM.Role)
	member.CreatedAt = memberM.CreatedAt

	return nil
}

// ListAll returns every registration, newest first. Equal timestamps fall back to id order.
func (repo *memberRepository) ListAll(ctx context.Context) ([]*entity.Member, error) {
	var models []*model.MemberModel
	if err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, domainerrors.NewStoreError("list members", err)
	}

	members := make([]*entity.Member, 0, len(models))
	for _, memberM := range models {
		members = append(members, toMemberDomain(memberM))
	}

	return members, nil
}

// FindByEmail matches the email exactly. The lookup always goes to the primary so a
// member can log in immediately after registering.
func (repo *memberRepository) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	var memberM model.MemberModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("email = ?", email).
		Take(&memberM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}

		return nil, domainerrors.NewStoreError("find member by email", err)
	}

	return toMemberDomain(&memberM), nil
}

func fromMemberDomain(member *entity.Member) *model.MemberModel {
	memberM := &model.MemberModel{
		ID:        member.ID,
		FirstName: member.FirstName,
		LastName:  member.LastName,
		Email:     member.Email,
		Phone:     member.Phone,
		IDNumber:  member.IDNumber,
		County:    member.County,
		Password:  member.PasswordHash,
	}

	return memberM
}

func toMemberDomain(memberM *model.MemberModel) *entity.Member {
	return &entity.Member{
		ID:           memberM.ID,
		FirstName:    memberM.FirstName,
		LastName:     memberM.LastName,
		Email:        memberM.Email,
		Phone:        memberM.Phone,
		IDNumber:     memberM.IDNumber,
		County:       memberM.County,
		Role:         roleFromModel(memberM.Role),
		CreatedAt:    memberM.CreatedAt,
		PasswordHash: memberM.Password,
	}
}

func roleFromModel(role *string) entity.Role {
	if role == nil {
		return ""
	}

	return entity.Role(*role)
}
