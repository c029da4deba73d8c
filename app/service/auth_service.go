package service

import (
	"errors"

	"outcome-tracking-backend/app/model"
	"outcome-tracking-backend/app/repository"

	"golang.org/x/crypto/bcrypt"
)

// Interface AuthService mendefinisikan apa saja yang bisa dilakukan layanan ini.
// Pendaftaran akun dikelola di luar sistem ini; yang dibutuhkan endpoint
// ber-scope role hanyalah login + identitas di token.
type AuthService interface {
	Login(email, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService menghubungkan Service dengan Repository
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{
		userRepo: userRepo,
	}
}

// Login: Memeriksa apakah email dan password cocok
func (s *authService) Login(email, password string) (*model.User, error) {
	// 1. Cari user berdasarkan email lewat Repository
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.New("email tidak ditemukan")
	}

	// 2. Cek Password
	// Bandingkan password inputan dengan hash di database
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, errors.New("password salah")
	}

	// 3. Cek apakah user aktif
	if !user.IsActive {
		return nil, errors.New("akun anda dinonaktifkan")
	}

	// Jika sukses, kembalikan data user (handler yang akan bikin Token JWT)
	return user, nil
}
