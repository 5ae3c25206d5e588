// Package api is the client side of the gophtodo backend contract: JSON over
// HTTP under a base path such as http://localhost:8080/api.
//
// # Operations
//
//	POST   /auth/login      {email,password}       -> {user,token,refreshToken}
//	POST   /auth/register   {name,email,password}  -> {user,token,refreshToken}
//	POST   /auth/logout     {}            (Bearer)
//	POST   /auth/refresh    {refreshToken}         -> {user,token,refreshToken}
//	GET    /health
//	GET    /tasks                         (Bearer) -> Task[]
//	GET    /tasks/{id}                    (Bearer) -> Task
//	POST   /tasks           {title,description?} (Bearer) -> Task
//	PUT    /tasks/{id}      partial Task  (Bearer) -> Task
//	DELETE /tasks/{id}                    (Bearer)
//
// # Errors
//
// Non-2xx responses become *apperror.AppError values whose kind follows the
// status code (400 ErrValidation, 401/403 ErrUnauthorized, 404 ErrNotFound,
// 409 ErrConflict, 502-504 ErrUnavailable, other ErrRemote) and whose
// Message is the server's "message" field. Transport failures wrap
// apperror.ErrUnavailable and carry no user-facing message.
package api
