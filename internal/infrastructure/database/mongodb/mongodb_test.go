package mongodb

import (
	"errors"
	"testing"
	"time"

	domainCar "fourwheeler-backend/internal/domain/car"
	domainUser "fourwheeler-backend/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func duplicateKey(msg string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: msg}}}
}

func TestDuplicateUserError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"username", duplicateKey(`E11000 duplicate key error collection: fourwheeler.user index: username_unique dup key: { username: "dana" }`), domainUser.ErrUsernameTaken},
		{"email", duplicateKey(`E11000 duplicate key error collection: fourwheeler.user index: email_unique dup key: { email: "dana@example.com" }`), domainUser.ErrEmailTaken},
		{"email value mentions username", duplicateKey(`E11000 duplicate key error collection: fourwheeler.user index: email_unique dup key: { email: "username@x.com" }`), domainUser.ErrEmailTaken},
		{"unknown index", duplicateKey(`E11000 duplicate key error collection: fourwheeler.user index: _id_ dup key`), domainUser.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, duplicateUserError(tt.err), tt.want)
		})
	}
}

func TestIsDuplicateOn(t *testing.T) {
	err := duplicateKey(`E11000 duplicate key error collection: fourwheeler.car index: make_model_unique dup key: { make: "Mazda", model: "3" }`)

	assert.True(t, isDuplicateOn(err, makeModelIndex))
	assert.False(t, isDuplicateOn(err, usernameIndex))
	assert.False(t, isDuplicateOn(errors.New("index: make_model_unique dup key"), makeModelIndex))
}

func TestUserDocumentRoundTrip(t *testing.T) {
	phone := "+84901234567"
	fav := uuid.New()
	u := &domainUser.User{
		ID:        uuid.New(),
		Username:  "dana",
		Email:     "dana@example.com",
		Role:      domainUser.RoleUser,
		Phone:     &phone,
		Favorites: []uuid.UUID{fav},
		CreatedAt: time.Now().UTC(),
	}

	doc := toUserDocument(u)
	assert.Equal(t, u.ID.String(), doc.ID)
	assert.Equal(t, []string{fav.String()}, doc.Favorites)

	back := toUserEntity(doc)
	assert.Equal(t, u.ID, back.ID)
	assert.Equal(t, []uuid.UUID{fav}, back.Favorites)
	assert.Equal(t, &phone, back.Phone)
}

func TestCarDocumentKeepsImageOrder(t *testing.T) {
	c := &domainCar.Car{ID: uuid.New(), Make: "Mazda", Model: "3", Images: []string{"a", "b", "c"}, Status: domainCar.StatusAvailable}

	back := toCarEntity(toCarDocument(c))
	assert.Equal(t, []string{"a", "b", "c"}, back.Images)
	assert.Equal(t, domainCar.StatusAvailable, back.Status)

	empty := toCarDocument(&domainCar.Car{ID: uuid.New()})
	assert.NotNil(t, empty.Images)
}

func TestParseIDRejectsGarbage(t *testing.T) {
	assert.Equal(t, uuid.Nil, parseID("not-a-uuid"))
}
