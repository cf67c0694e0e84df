package model

// Role discriminates the two user subtypes. Every identity has exactly one.
type Role string

const (
	RoleOwner  Role = "owner"  // duenio
	RoleDriver Role = "driver" // conductor
)

// Valid reports whether r is one of the known subtypes.
func (r Role) Valid() bool { return r == RoleOwner || r == RoleDriver }

// Usuario holds the attributes shared by every user regardless of subtype.
// The ID space is global: an owner and a driver never share an ID.
//
// Fields:
//  ID           – surrogate identity generated by the store.
//  Name         – full name.
//  Email        – unique across owners and drivers, stored lower-cased.
//  PasswordHash – bcrypt hash; never serialized.
//  Phone        – contact phone.
type Usuario struct {
	ID           int64  `json:"id"`    // usuarios.id
	Name         string `json:"name"`  // usuarios.name
	Email        string `json:"email"` // usuarios.email (unique)
	PasswordHash string `json:"-"`     // usuarios.password_hash
	Phone        string `json:"phone"` // usuarios.phone
}

// Account is the closed set of user variants: *Owner or *Driver.
type Account interface {
	Base() Usuario
	Role() Role
	isAccount()
}

// Owner is a user that owns lots. It adds a tax identifier (CUIT).
type Owner struct {
	Usuario
	TaxID string `json:"tax_id"`
}

func (o *Owner) Base() Usuario { return o.Usuario }
func (o *Owner) Role() Role    { return RoleOwner }
func (*Owner) isAccount()      {}

// Driver is a user that parks at lots.
type Driver struct {
	Usuario
}

func (d *Driver) Base() Usuario { return d.Usuario }
func (d *Driver) Role() Role    { return RoleDriver }
func (*Driver) isAccount()      {}

// UserRecord is the storage row of a user: the shared attributes plus the
// discriminator and the subtype-specific columns. The owner and driver
// collections are the disjoint partitions of these rows by Role.
type UserRecord struct {
	Usuario
	Role  Role   // usuarios.role
	TaxID string // usuarios.tax_id (NULL for drivers)
}

// Key returns the user identity.
func (r UserRecord) Key() IDKey { return IDKey(r.ID) }

// Account converts the row into its variant. Unknown roles yield nil.
func (r UserRecord) Account() Account {
	switch r.Role {
	case RoleOwner:
		return &Owner{Usuario: r.Usuario, TaxID: r.TaxID}
	case RoleDriver:
		return &Driver{Usuario: r.Usuario}
	}
	return nil
}

// RecordOf converts a variant back into its storage row. A nil account,
// typed or not, yields a record with an empty Role.
func RecordOf(a Account) UserRecord {
	switch v := a.(type) {
	case *Owner:
		if v != nil {
			return UserRecord{Usuario: v.Usuario, Role: RoleOwner, TaxID: v.TaxID}
		}
	case *Driver:
		if v != nil {
			return UserRecord{Usuario: v.Usuario, Role: RoleDriver}
		}
	}
	return UserRecord{}
}

// Profile is the input used to create or edit a user. Password is the plain
// secret as typed; it is hashed before it reaches the store and an empty
// value on update keeps the current hash.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}
