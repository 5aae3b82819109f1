// Package pages holds the HTML views rendered by the handlers.
package pages

import "html/template"

// View names passed to gin's c.HTML.
const (
	Index         = "index"
	ChooseOption  = "choose_option"
	Option1Genre  = "option1_genre"
	Option2Form   = "option2_form"
	Option3Select = "option3_select_playlist"
	Success       = "success"
)

var layout = `
{{define "header"}}<!DOCTYPE html>
<html>
<head>
    <title>{{.}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
        }
        label { display: block; margin-top: 10px; }
        button { margin-top: 15px; }
    </style>
</head>
<body>
    <h1>{{.}}</h1>
{{end}}
{{define "footer"}}
    <p><a href="/">Back to start</a></p>
</body>
</html>{{end}}
{{define "playlist_options"}}
        {{range .}}<option value="{{.ID}}">{{.Name}} ({{.TotalTracks}} tracks)</option>
        {{end}}
{{end}}
`

var index = `
{{define "index"}}{{template "header" "Playlist Sorter"}}
    <p><a href="/login">Connect your Spotify account</a> | <a href="/logout">Log out</a></p>
    <form action="/choose" method="post">
        <label><input type="radio" name="option" value="1" checked> Reorganize an existing playlist</label>
        <label><input type="radio" name="option" value="2"> Generate a playlist from a description</label>
        <label><input type="radio" name="option" value="3"> Recommend songs from an existing playlist</label>
        <button type="submit">Continue</button>
    </form>
{{template "footer"}}{{end}}
`

var chooseOption = `
{{define "choose_option"}}{{template "header" "Reorganize a playlist"}}
    <form action="/option1" method="post">
        <label for="playlist_id">Playlist</label>
        <select id="playlist_id" name="playlist_id">{{template "playlist_options" .Playlists}}</select>
        <label for="playlist_link">or paste a playlist link</label>
        <input type="text" id="playlist_link" name="playlist_link">
        <label><input type="radio" name="action" value="release" checked> Sort by release date</label>
        <label><input type="radio" name="action" value="popularity"> Sort by popularity</label>
        <label><input type="radio" name="action" value="genre"> Filter by genre</label>
        <label for="new_playlist_name">New playlist name</label>
        <input type="text" id="new_playlist_name" name="new_playlist_name" value="New Playlist">
        <button type="submit">Go</button>
    </form>
{{template "footer"}}{{end}}
`

var option1Genre = `
{{define "option1_genre"}}{{template "header" "Pick genres"}}
    {{if .TopGenres}}
    <ul>
        {{range .TopGenres}}<li>{{.Genre}} ({{.Count}})</li>
        {{end}}
    </ul>
    {{else}}
    <p>No genres found for this playlist.</p>
    {{end}}
    <form action="/option1genre" method="post">
        <input type="hidden" name="playlist_id" value="{{.PlaylistID}}">
        <label for="genres">Genres (comma-separated)</label>
        <input type="text" id="genres" name="genres">
        <label for="new_playlist_name">New playlist name</label>
        <input type="text" id="new_playlist_name" name="new_playlist_name" value="{{.NewPlaylistName}}">
        <button type="submit">Filter</button>
    </form>
{{template "footer"}}{{end}}
`

var option2Form = `
{{define "option2_form"}}{{template "header" "Describe a playlist"}}
    <form action="/option2" method="post">
        <label for="num_songs">Number of songs (max 50)</label>
        <input type="number" id="num_songs" name="num_songs" min="1" max="50" value="{{.DefaultSongCount}}">
        <label for="description">Description</label>
        <textarea id="description" name="description" rows="4" cols="60"></textarea>
        <label for="new_playlist_name">Playlist name (leave blank to let the model pick)</label>
        <input type="text" id="new_playlist_name" name="new_playlist_name">
        <button type="submit">Generate</button>
    </form>
{{template "footer"}}{{end}}
`

var option3Select = `
{{define "option3_select_playlist"}}{{template "header" "Recommend from a playlist"}}
    <form action="/option3" method="post">
        <label for="playlist_id">Playlist</label>
        <select id="playlist_id" name="playlist_id">{{template "playlist_options" .Playlists}}</select>
        <label for="playlist_link">or paste a playlist link</label>
        <input type="text" id="playlist_link" name="playlist_link">
        <label for="new_playlist_name">Playlist name (leave blank to let the model pick)</label>
        <input type="text" id="new_playlist_name" name="new_playlist_name">
        <button type="submit">Recommend</button>
    </form>
{{template "footer"}}{{end}}
`

var success = `
{{define "success"}}{{template "header" "Done"}}
    <p>{{.Message}}</p>
{{template "footer"}}{{end}}
`

// Templates parses every view into one set for gin's SetHTMLTemplate.
func Templates() *template.Template {
	t := template.New("pages")
	for _, src := range []string{layout, index, chooseOption, option1Genre, option2Form, option3Select, success} {
		template.Must(t.Parse(src))
	}
	return t
}
