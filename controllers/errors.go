package controllers

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrTableNotFound = &CustomError{"Table not found"}
	ErrOrderNotFound = &CustomError{"Order not found"}
)
