package main

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"

	"github.com/audioscribe/transcriber/internal/api"
	"github.com/audioscribe/transcriber/internal/config"
	"github.com/audioscribe/transcriber/internal/database"
	"github.com/audioscribe/transcriber/internal/storage"
)

type application struct {
	service *api.Service
	log     *logrus.Entry
}

func main() {
	log := logrus.WithField("service", "frontend")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Check("TABLE_NAME", "PROJECT_BUCKET", "JWKS_URL"); err != nil {
		log.Fatal(err)
	}
	port := cfg.Port
	if port == "" {
		port = "5000"
	}

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	store, err := database.NewStore(dynamodb.New(sess), cfg.TableName)
	if err != nil {
		log.Fatal(err)
	}
	signer, err := storage.NewSigner(s3.New(sess))
	if err != nil {
		log.Fatal(err)
	}
	service, err := api.NewService(store, signer, cfg.ProjectBucket)
	if err != nil {
		log.Fatal(err)
	}
	app := &application{service: service, log: log}

	auth, err := newAuthMiddleware(cfg.JWKSURL)
	if err != nil {
		log.Fatal(err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/ping", app.pingHandler)
	r.HandleFunc("/transcribe/{user}/job", app.listJobsHandler)
	r.HandleFunc("/transcribe/{user}/job/{id}", app.getJobURIHandler)
	r.HandleFunc("/transcribe/{user}/upload/{id}", app.getUploadURIHandler)

	n := negroni.New(negroni.NewRecovery(), negroni.NewLogger())
	n.Use(auth)
	n.UseHandler(r)

	log.Infof("Starting HTTP service at %s", port)
	log.Fatal(http.ListenAndServe(":"+port, n))
}

func (a *application) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("pong\n"))
}

func (a *application) writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "can't prepare result", http.StatusInternalServerError)
		a.log.Error(err)
	}
}

func (a *application) listJobsHandler(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	recs, err := a.service.Jobs(r.Context(), user)
	if err != nil {
		http.Error(w, "can't list jobs", http.StatusInternalServerError)
		a.log.Error(err)
		return
	}
	a.writeJSON(w, recs)
}

func (a *application) getJobURIHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	uri, err := a.service.ResultURI(r.Context(), id)
	if err != nil {
		http.Error(w, "can't get job result", http.StatusBadRequest)
		a.log.Error(err)
		return
	}
	a.writeJSON(w, uri)
}

func (a *application) getUploadURIHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uri, err := a.service.UploadURI(vars["user"], vars["id"])
	if err != nil {
		http.Error(w, "can't make upload uri", http.StatusBadRequest)
		a.log.Error(err)
		return
	}
	a.writeJSON(w, uri)
}
