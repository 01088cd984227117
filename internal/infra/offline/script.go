package offline

import (
	"bytes"
	"encoding/json"
	"text/template"
)

var swTemplate = template.Must(template.New("sw").Parse(`// generated by activation-admin
const CACHE = {{.NameJSON}};
const PRECACHE = {{.AssetsJSON}};

self.addEventListener("install", e => {
  e.waitUntil(caches.open(CACHE).then(c => c.addAll(PRECACHE)));
});

self.addEventListener("fetch", e => {
  e.respondWith(caches.match(e.request).then(r => r || fetch(e.request)));
});
`))

// ServiceWorkerScript renders the browser-side worker with the same contract:
// eager precache on install, cache-first on fetch, no revalidation.
func ServiceWorkerScript(name string, precache []string) ([]byte, error) {
	nameJSON, err := json.Marshal(name)
	if err != nil {
		return nil, err
	}
	if precache == nil {
		precache = []string{}
	}
	assetsJSON, err := json.Marshal(precache)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = swTemplate.Execute(&buf, struct {
		NameJSON   string
		AssetsJSON string
	}{NameJSON: string(nameJSON), AssetsJSON: string(assetsJSON)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
