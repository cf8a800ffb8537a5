package apperrors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/caminoadmin/comunidades-go/internal/store"
)

// AppError is a user-presentable error: an HTTP status plus a Spanish
// message safe to render in the UI.
type AppError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *AppError) Error() string {
	return e.Message
}

// ValidationError wraps a message from the schema layer. It never reaches
// the database.
func ValidationError(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// uniqueMessages maps unique-constraint names to specific user messages.
var uniqueMessages = map[string]string{
	"countries_name_key":            "Ya existe un país con ese nombre",
	"countries_code_key":            "Ya existe un país con ese código",
	"states_name_country_key":       "Ya existe un departamento con ese nombre en el país",
	"cities_name_state_key":         "Ya existe una ciudad con ese nombre en el departamento",
	"zones_name_city_key":           "Ya existe una zona con ese nombre en la ciudad",
	"dioceses_name_key":             "Ya existe una diócesis con ese nombre",
	"parishes_name_city_key":        "Ya existe una parroquia con ese nombre en la ciudad",
	"communities_number_parish_key": "Ya existe una comunidad con ese número en la parroquia",
	"auth_users_email_key":          "Ya existe un usuario con ese correo",
	"belongs_person_team_key":       "Esa persona ya pertenece al equipo",
	"brothers_person_community_key": "Esa persona ya es hermano de la comunidad",
}

// fkMessages maps the referenced table (parsed from the constraint name) to
// a message explaining which dependents block the operation.
var fkMessages = map[string]string{
	"states":      "No se puede eliminar: tiene departamentos asociados",
	"cities":      "No se puede eliminar: tiene ciudades asociadas",
	"zones":       "No se puede eliminar: tiene zonas asociadas",
	"parishes":    "No se puede eliminar: tiene parroquias asociadas",
	"communities": "No se puede eliminar: tiene comunidades asociadas",
	"teams":       "No se puede eliminar: tiene equipos asociados",
	"brothers":    "No se puede eliminar: tiene hermanos asociados",
	"belongs":     "No se puede eliminar: tiene miembros de equipo asociados",
	"people":      "No se puede eliminar: hay personas que dependen de este registro",
}

const (
	genericMessage    = "Ocurrió un error inesperado. Intenta de nuevo."
	duplicateMessage  = "Ya existe un registro con esos datos"
	referencedMessage = "No se puede completar la operación: el registro está en uso"
	permissionMessage = "No tienes permisos para realizar esta acción"
)

// Translate turns any error from the data layer into an AppError. Constraint
// violations are pattern-matched by constraint name; unrecognized ones fall
// back to a generic message for their class.
func Translate(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, store.ErrNoPermission) {
		return &AppError{Status: http.StatusForbidden, Message: permissionMessage}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if msg, ok := uniqueMessages[pgErr.ConstraintName]; ok {
				return &AppError{Status: http.StatusConflict, Message: msg}
			}
			return &AppError{Status: http.StatusConflict, Message: duplicateMessage}
		case pgForeignKeyViolation:
			for table, msg := range fkMessages {
				if strings.HasPrefix(pgErr.ConstraintName, table+"_") {
					return &AppError{Status: http.StatusConflict, Message: msg}
				}
			}
			return &AppError{Status: http.StatusConflict, Message: referencedMessage}
		}
	}

	return &AppError{Status: http.StatusInternalServerError, Message: genericMessage}
}
