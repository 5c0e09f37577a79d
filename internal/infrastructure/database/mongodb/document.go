package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wichananm65/user-directory/internal/domain/entity"
)

// userDocument is the stored shape of a user in the users collection.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Email     string             `bson:"email"`
	Phone     *string            `bson:"phone,omitempty"`
	Age       int                `bson:"age"`
	Gender    *string            `bson:"gender,omitempty"`
	Bio       *string            `bson:"bio,omitempty"`
	IsActive  bool               `bson:"isActive"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func toDocument(u *entity.User) (userDocument, error) {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return userDocument{}, fmt.Errorf("mongodb: user id %q: %w", u.ID, err)
	}
	return userDocument{
		ID:        oid,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Age:       u.Age,
		Gender:    u.Gender,
		Bio:       u.Bio,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func fromDocument(d userDocument) *entity.User {
	return &entity.User{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Age:       d.Age,
		Gender:    d.Gender,
		Bio:       d.Bio,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
