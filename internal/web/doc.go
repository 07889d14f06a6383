// Package web provides the browser interface of the todo application.
//
// # Routes
//
//	GET  /              welcome page
//	GET  /list-todos    the current user's todos
//	GET  /add-todo      blank todo form
//	POST /add-todo      create a todo
//	GET  /update-todo   edit form for ?id=
//	POST /update-todo   save a todo
//	GET  /delete-todo   delete ?id=
//	GET  /help          embedded help pages
//	GET  /login         login form
//	POST /login         form login
//	POST /logout        end the session
//
// Every route sits behind the auth gate installed by App.Protect. Handlers
// read the current user from the request context and pass it to the todo
// controller explicitly.
//
// # Templates
//
// Views are html/template files embedded with //go:embed. Each view is parsed
// together with templates/base.html, which supplies the layout and expects the
// view to define a "content" block.
//
// # CSRF Protection
//
// All form submissions require CSRF tokens:
//
//	<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
package web
