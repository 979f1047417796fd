package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medirec/medirec/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

func (r *userRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const userCols = `u.id, u.role, u.full_name, u.dob, u.gender, u.email, u.phone,
	u.password_hash, u.refresh_token, u.created_at, u.updated_at`

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO users (id, role, full_name, dob, gender, email, phone, password_hash)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			u.ID, u.Role, u.FullName, u.DOB, u.Gender, u.Email, u.Phone, u.PasswordHash)
		if err != nil {
			return mapPgError(err)
		}

		switch {
		case u.PatientProfile != nil:
			p := u.PatientProfile
			_, err = r.conn(ctx).Exec(ctx, `
				INSERT INTO patient_profiles (user_id, patient_id, address, blood_group,
					allergies, chronic_diseases, emergency_contact)
				VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				u.ID, p.PatientID, p.Address, p.BloodGroup,
				p.Allergies, p.ChronicDiseases, p.EmergencyContact)
		case u.DoctorProfile != nil:
			d := u.DoctorProfile
			_, err = r.conn(ctx).Exec(ctx, `
				INSERT INTO doctor_profiles (user_id, doctor_id, specialization,
					license_number, years_of_experience, availability)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				u.ID, d.DoctorID, d.Specialization,
				d.LicenseNumber, d.YearsOfExperience, d.Availability)
		}
		return mapPgError(err)
	})
}

func (r *userRepoPG) getBy(ctx context.Context, where string, arg interface{}) (*User, error) {
	var u User
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users u WHERE `+where, arg).
		Scan(&u.ID, &u.Role, &u.FullName, &u.DOB, &u.Gender, &u.Email, &u.Phone,
			&u.PasswordHash, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadProfile(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) loadProfile(ctx context.Context, u *User) error {
	switch u.Role {
	case RolePatient:
		var p PatientProfile
		err := r.conn(ctx).QueryRow(ctx, `
			SELECT patient_id, address, blood_group, allergies, chronic_diseases, emergency_contact
			FROM patient_profiles WHERE user_id = $1`, u.ID).
			Scan(&p.PatientID, &p.Address, &p.BloodGroup, &p.Allergies, &p.ChronicDiseases, &p.EmergencyContact)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		u.PatientProfile = &p
	case RoleDoctor:
		var d DoctorProfile
		err := r.conn(ctx).QueryRow(ctx, `
			SELECT doctor_id, specialization, license_number, years_of_experience, availability
			FROM doctor_profiles WHERE user_id = $1`, u.ID).
			Scan(&d.DoctorID, &d.Specialization, &d.LicenseNumber, &d.YearsOfExperience, &d.Availability)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		u.DoctorProfile = &d
	}
	return nil
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getBy(ctx, `u.id = $1`, id)
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, `u.email = $1`, email)
}

func (r *userRepoPG) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR phone = $2)`,
		email, phone).Scan(&exists)
	return exists, err
}

func (r *userRepoPG) UpdateProfile(ctx context.Context, u *User) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		_, err := r.conn(ctx).Exec(ctx, `
			UPDATE users SET full_name=$2, dob=$3, gender=$4, email=$5, phone=$6, updated_at=NOW()
			WHERE id = $1`,
			u.ID, u.FullName, u.DOB, u.Gender, u.Email, u.Phone)
		if err != nil {
			return mapPgError(err)
		}

		switch {
		case u.PatientProfile != nil:
			p := u.PatientProfile
			_, err = r.conn(ctx).Exec(ctx, `
				UPDATE patient_profiles SET address=$2, blood_group=$3, allergies=$4,
					chronic_diseases=$5, emergency_contact=$6
				WHERE user_id = $1`,
				u.ID, p.Address, p.BloodGroup, p.Allergies, p.ChronicDiseases, p.EmergencyContact)
		case u.DoctorProfile != nil:
			d := u.DoctorProfile
			_, err = r.conn(ctx).Exec(ctx, `
				UPDATE doctor_profiles SET specialization=$2, license_number=$3,
					years_of_experience=$4, availability=$5
				WHERE user_id = $1`,
				u.ID, d.Specialization, d.LicenseNumber, d.YearsOfExperience, d.Availability)
		}
		return mapPgError(err)
	})
}

func (r *userRepoPG) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoPG) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE users SET refresh_token=$2, updated_at=NOW() WHERE id = $1`,
		id, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapPgError converts unique violations into ErrDuplicate.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
