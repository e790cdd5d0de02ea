//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"chat-api/domain"
	"chat-api/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, name, email, hashedPassword string) (string, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SearchByName(ctx context.Context, name string) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository stores account documents in BadgerDB. Each user is
// written under two keys inside one transaction:
//
//	user:id:{uuid}      -> CBOR document
//	user:email:{email}  -> uuid
//
// The email key doubles as the uniqueness constraint and the login
// lookup path.
type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// userDoc is the stored shape, kept separate from domain.User so the
// persisted encoding can evolve independently.
type userDoc struct {
	ID           string `cbor:"id"`
	Name         string `cbor:"name"`
	Email        string `cbor:"email"`
	PasswordHash string `cbor:"password_hash"`
	CreatedAt    int64  `cbor:"created_at"`
}

const (
	userIDPrefix    = "user:id:"
	userEmailPrefix = "user:email:"
)

// CreateUser persists a new account and returns its generated id.
// A taken email fails the whole transaction with ErrEmailTaken.
func (u UserRepository) CreateUser(ctx context.Context, name, email, hashedPassword string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	newID := uuid.NewString()
	doc := userDoc{
		ID:           newID,
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().Unix(),
	}

	data, err := cbor.Marshal(doc)
	if err != nil {
		return "", errors.Internal("marshal user", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte(userEmailPrefix + email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrEmailTaken
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(emailKey, []byte(newID)); err != nil {
			return err
		}
		return txn.Set([]byte(userIDPrefix+newID), data)
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// GetByEmail resolves the email index, then loads the document.
func (u UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	var doc userDoc
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userEmailPrefix + email))
		if err != nil {
			return err
		}
		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return err
		}
		return readDoc(txn, userIDPrefix+string(id), &doc)
	})
	if err != nil {
		return domain.User{}, mapStorageErr("get user by email", err)
	}
	return toUser(doc), nil
}

func (u UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	var doc userDoc
	err := u.db.View(func(txn *badger.Txn) error {
		return readDoc(txn, userIDPrefix+id, &doc)
	})
	if err != nil {
		return domain.User{}, mapStorageErr("get user by id", err)
	}
	return toUser(doc), nil
}

// List returns every account, in key order.
func (u UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return u.scan(ctx, func(userDoc) bool { return true })
}

// SearchByName returns accounts whose name matches exactly, the same
// filter-by-field contract the document store exposes.
func (u UserRepository) SearchByName(ctx context.Context, name string) ([]domain.User, error) {
	return u.scan(ctx, func(doc userDoc) bool {
		return strings.EqualFold(doc.Name, name)
	})
}

func (u UserRepository) scan(ctx context.Context, keep func(userDoc) bool) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(userIDPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var doc userDoc
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &doc)
			})
			if err != nil {
				return err
			}
			if keep(doc) {
				users = append(users, toUser(doc))
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapStorageErr("scan users", err)
	}
	return users, nil
}

// Delete removes both the document and its email index key.
func (u UserRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		var doc userDoc
		if err := readDoc(txn, userIDPrefix+id, &doc); err != nil {
			return err
		}
		if err := txn.Delete([]byte(userEmailPrefix + doc.Email)); err != nil {
			return err
		}
		return txn.Delete([]byte(userIDPrefix + id))
	})
	return mapStorageErr("delete user", err)
}

func toUser(doc userDoc) domain.User {
	return domain.User{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    time.Unix(doc.CreatedAt, 0).UTC(),
	}
}
