package user

import (
	"testing"
	"time"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

func TestMakeVerifyCode(t *testing.T) {
	conf := &core.Config{
		SecretKey:            "secret",
		PasswordResetTimeout: 15 * time.Minute,
	}

	now := time.Now()
	active := true
	usr := User{
		ID:        "5aee939b-b52f-47cf-bb8c-a89c08c2d835",
		FirstName: "T",
		LastName:  "T",
		Email:     "t@test.test",
		IsActive:  &active,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validCode, err := MakeCode(usr, conf)
	if err != nil {
		t.Fatalf("MakeCode() failed: %v", err)
	}

	// generate an expired code (two full buckets back)
	late := 2*conf.PasswordResetTimeout + time.Minute
	NowFunc = func() time.Time { return time.Now().Add(-late) }
	expiredCode, err := MakeCode(usr, conf)
	if err != nil {
		t.Fatalf("MakeCode() failed: %v", err)
	}
	NowFunc = time.Now // reset

	otherUsr := usr
	otherUsr.ID = "e2b7c2b1-84a4-4f08-b8a4-56d13d1a7b42"

	tests := []struct {
		name    string
		usr     User
		code    string
		wantErr error
	}{
		{name: "no code", usr: usr, wantErr: ErrInvalidCode},
		{name: "wrong length", usr: usr, code: "1234", wantErr: ErrInvalidCode},
		{name: "non numeric", usr: usr, code: "lmaool", wantErr: ErrInvalidCode},
		{name: "wrong user", usr: otherUsr, code: validCode, wantErr: ErrInvalidCode},
		{name: "expired code", usr: usr, code: expiredCode, wantErr: ErrInvalidCode},
		{name: "valid code", usr: usr, code: validCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyCode(tt.usr, tt.code, conf); err != tt.wantErr {
				t.Errorf("verifyCode() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCodeInvalidatedByPasswordChange(t *testing.T) {
	conf := &core.Config{
		SecretKey:            "secret",
		PasswordResetTimeout: 15 * time.Minute,
	}
	usr := User{ID: "5aee939b-b52f-47cf-bb8c-a89c08c2d835", Email: "t@test.test"}
	_ = usr.SetPassword("pwd")

	code, err := MakeCode(usr, conf)
	if err != nil {
		t.Fatalf("MakeCode() failed: %v", err)
	}
	if err = verifyCode(usr, code, conf); err != nil {
		t.Fatalf("verifyCode() failed on fresh code: %v", err)
	}

	_ = usr.SetPassword("new-pwd")
	if err = verifyCode(usr, code, conf); err != ErrInvalidCode {
		t.Errorf("verifyCode() after password change = %v, want %v", err, ErrInvalidCode)
	}
}
