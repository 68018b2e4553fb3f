package forumtest

import "html/template"

var pageTemplates = template.Must(template.New("forum").Parse(`
{{define "login"}}<!DOCTYPE html>
<html><head><meta charset="{{.Charset}}"><title>Login</title></head>
<body>
<form method="post" action="/login">
  <input type="hidden" name="_token" value="{{.Token}}">
  <input type="text" name="name">
  <input type="password" name="password">
  <button type="submit">Entrar</button>
</form>
</body></html>{{end}}

{{define "home"}}<!DOCTYPE html>
<html><head><meta charset="{{.Charset}}"><title>Forum</title></head>
<body>
{{if .LoggedIn}}<a href="/logout">Logout</a>{{else}}<p class="error">Wrong credentials</p>{{end}}
</body></html>{{end}}

{{define "listing"}}<!DOCTYPE html>
<html><head><meta charset="{{.Charset}}"><title>Posts of {{.User}}</title></head>
<body>
<ul class="pg">
{{range .Pages}}  <li><a href="/id/{{$.User}}/posts/{{.}}">{{.}}</a></li>
{{end}}</ul>
<table>
<tbody id="temas">
{{range .Posts}}  <tr>
    <td><a class="hb" href="/post/{{.ID}}">{{.Title}}</a></td>
    <td><span class="rd" data-time="{{.Time.Unix}}">{{.Time.Format "02-01-2006"}}</span></td>
  </tr>
{{end}}</tbody>
</table>
</body></html>{{end}}

{{define "post"}}<!DOCTYPE html>
<html><head><meta charset="{{.Charset}}"><title>{{.Post.Title}}</title></head>
<body>
<div class="post" id="post-{{.Post.ID}}">
  {{if .Editable}}<a class="post-btn" title="Editar" href="/post/{{.Post.ID}}/edit">Editar</a>{{end}}
  <a class="post-btn" title="Citar" href="/post/{{.Post.ID}}/quote">Citar</a>
  <div class="body">{{.Post.Content}}</div>
</div>
</body></html>{{end}}

{{define "edit"}}<!DOCTYPE html>
<html><head><meta charset="{{.Charset}}"><title>Editar</title></head>
<body>
<form id="postear" method="post" action="/post/{{.Post.ID}}/edit">
  <input type="hidden" name="_token" value="{{.Token}}">
  <input type="hidden" name="pid" value="{{.Post.ID}}">
  <input type="hidden" name="tid" value="{{.Post.Thread}}">
  <input type="text" name="title" value="{{.Post.Title}}">
  <textarea id="cuerpo" name="cuerpo">{{.Post.Content}}</textarea>
  <button type="submit" name="Submit" value="Guardar">Guardar</button>
</form>
</body></html>{{end}}
`))
