package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"ozpay/internal/domain/entities"
	mock_interfaces "ozpay/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestCredentialUseCase_Save(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		uc := NewCredentialUseCase(nil, nil, nil)
		inputs := []SaveCredentialInput{
			{GatewayName: "card", Credentials: entities.CredentialSet{"a": "b"}},
			{TenantID: "t1", Credentials: entities.CredentialSet{"a": "b"}},
			{TenantID: "t1", GatewayName: "card"},
			{TenantID: "t1", GatewayName: "card", Credentials: entities.CredentialSet{" ": "b"}},
		}
		for i, in := range inputs {
			if _, err := uc.Save(context.Background(), in); !errors.Is(err, ErrInvalidCredential) {
				t.Fatalf("input %d: expected ErrInvalidCredential, got %v", i, err)
			}
		}
	})

	t.Run("stores ciphertext and describes keys", func(t *testing.T) {
		h := newHarness(t)
		uc := NewCredentialUseCase(h.store, h.vault, nil)

		desc, err := uc.Save(context.Background(), SaveCredentialInput{
			TenantID:    "t1",
			GatewayName: "card",
			Credentials: entities.CredentialSet{"public_key": "pk", "access_token": "APP_USR-1"},
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if !desc.Active || desc.ID == "" || !reflect.DeepEqual(desc.Keys, []string{"access_token", "public_key"}) {
			t.Fatalf("unexpected description %+v", desc)
		}

		stored, ok, _ := h.store.FindCredential(context.Background(), "t1", "card")
		if !ok {
			t.Fatalf("credential not stored")
		}
		set, err := h.vault.Reveal(stored.Ciphertext)
		if err != nil || set.Get("access_token") != "APP_USR-1" {
			t.Fatalf("stored blob does not reveal the set: %v", err)
		}
	})

	t.Run("rotation keeps id and created_at", func(t *testing.T) {
		h := newHarness(t)
		uc := NewCredentialUseCase(h.store, h.vault, nil)
		first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		uc.now = func() time.Time { return first }
		a, err := uc.Save(context.Background(), SaveCredentialInput{TenantID: "t1", GatewayName: "card", Credentials: entities.CredentialSet{"access_token": "old"}})
		if err != nil {
			t.Fatalf("save: %v", err)
		}

		uc.now = func() time.Time { return first.Add(time.Hour) }
		b, err := uc.Save(context.Background(), SaveCredentialInput{TenantID: "t1", GatewayName: "card", Credentials: entities.CredentialSet{"access_token": "new"}})
		if err != nil {
			t.Fatalf("rotate: %v", err)
		}
		if a.ID != b.ID || !b.CreatedAt.Equal(first) || !b.UpdatedAt.Equal(first.Add(time.Hour)) {
			t.Fatalf("rotation changed identity: %+v -> %+v", a, b)
		}
	})

	t.Run("vault failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockICredentialRepository(ctrl)
		v := mock_interfaces.NewMockICredentialVault(ctrl)
		v.EXPECT().Protect(gomock.Any()).Return(nil, errors.New("boom"))

		uc := NewCredentialUseCase(repo, v, nil)
		_, err := uc.Save(context.Background(), SaveCredentialInput{TenantID: "t1", GatewayName: "card", Credentials: entities.CredentialSet{"k": "v"}})
		if !errors.Is(err, ErrCredentialAccess) {
			t.Fatalf("expected ErrCredentialAccess, got %v", err)
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockICredentialRepository(ctrl)
		v := mock_interfaces.NewMockICredentialVault(ctrl)
		v.EXPECT().Protect(gomock.Any()).Return([]byte{1}, nil)
		repo.EXPECT().FindCredential(gomock.Any(), "t1", "card").Return(entities.GatewayCredential{}, false, nil)
		repo.EXPECT().SaveCredential(gomock.Any(), gomock.Any()).Return(entities.GatewayCredential{}, errors.New("db"))

		uc := NewCredentialUseCase(repo, v, nil)
		if _, err := uc.Save(context.Background(), SaveCredentialInput{TenantID: "t1", GatewayName: "card", Credentials: entities.CredentialSet{"k": "v"}}); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestCredentialUseCase_DescribeAndDeactivate(t *testing.T) {
	h := newHarness(t)
	uc := NewCredentialUseCase(h.store, h.vault, nil)
	ctx := context.Background()

	if _, err := uc.Describe(ctx, "t1", "card"); !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
	if _, err := uc.Deactivate(ctx, "", "card"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}

	h.putCredential(t, "t1", "card", true)

	desc, err := uc.Describe(ctx, "t1", "card")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !reflect.DeepEqual(desc.Keys, []string{"access_token"}) || !desc.Active {
		t.Fatalf("unexpected description %+v", desc)
	}

	desc, err = uc.Deactivate(ctx, "t1", "card")
	if err != nil || desc.Active {
		t.Fatalf("deactivate: %+v err=%v", desc, err)
	}
	stored, _, _ := h.store.FindCredential(ctx, "t1", "card")
	if stored.Active {
		t.Fatalf("deactivation not persisted")
	}
	if _, err := uc.Deactivate(ctx, "t1", "card"); err != nil {
		t.Fatalf("deactivate twice: %v", err)
	}

	_, _ = h.store.SaveCredential(ctx, entities.GatewayCredential{TenantID: "t1", GatewayName: "pix", Ciphertext: []byte("bad"), Active: true})
	if _, err := uc.Describe(ctx, "t1", "pix"); !errors.Is(err, ErrCredentialAccess) {
		t.Fatalf("expected ErrCredentialAccess, got %v", err)
	}
}
