package user

import "context"

// UserRepository defines the data access the core needs from the identity
// collaborator. User CRUD management itself lives outside this service.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
