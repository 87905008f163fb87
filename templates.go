package whisperwall

import "html/template"

// Page templates.  Deliberately bare: the interesting property is that
// secret texts pass through html/template escaping, since they are
// arbitrary user input.
const pageTemplates = `
{{define "head"}}<!DOCTYPE html>
<html>
<head><title>Whisper Wall</title></head>
<body>{{end}}

{{define "foot"}}</body>
</html>{{end}}

{{define "home"}}{{template "head"}}
<h1>Whisper Wall</h1>
<p>Share a secret. Nobody will know it was you.</p>
<p><a href="/register">Register</a> | <a href="/login">Login</a> | <a href="/secrets">Secrets</a></p>
{{template "foot"}}{{end}}

{{define "login"}}{{template "head"}}
<h1>Login</h1>
<form method="POST" action="/login">
	<label>Username: <input type="text" name="username" required></label>
	<label>Password: <input type="password" name="password" required></label>
	<button type="submit">Login</button>
</form>
<p><a href="/auth/google">Sign in with Google</a></p>
<p><a href="/register">Need an account?</a></p>
{{template "foot"}}{{end}}

{{define "register"}}{{template "head"}}
<h1>Register</h1>
<form method="POST" action="/register">
	<label>Username: <input type="text" name="username" required></label>
	<label>Password: <input type="password" name="password" required></label>
	<button type="submit">Register</button>
</form>
<p><a href="/auth/google">Sign up with Google</a></p>
{{template "foot"}}{{end}}

{{define "secrets"}}{{template "head"}}
<h1>You've made it to the secrets page</h1>
<ul>
{{range .Secrets}}	<li>{{.}}</li>
{{end}}</ul>
<p><a href="/submit">Submit a secret</a> | <a href="/logout">Logout</a></p>
{{template "foot"}}{{end}}

{{define "submit"}}{{template "head"}}
<h1>Submit a secret</h1>
<form method="POST" action="/submit">
	<label>Secret: <input type="text" name="secret" required></label>
	<button type="submit">Submit</button>
</form>
{{template "foot"}}{{end}}
`

func parsePageTemplates() *template.Template {
	return template.Must(template.New("pages").Parse(pageTemplates))
}
