package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/audioscribe/transcriber/internal/storage"
)

type args struct {
	fileName *string
	job      *string
	config   *string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: scribe <transcribe|list|get|wait> [flags]")
		os.Exit(2)
	}

	var arg args

	transcribeCommand := flag.NewFlagSet("transcribe", flag.ExitOnError)
	arg.fileName = transcribeCommand.String("filename", "", "The file to be uploaded")

	listCommand := flag.NewFlagSet("list", flag.ExitOnError)

	getCommand := flag.NewFlagSet("get", flag.ExitOnError)
	arg.job = getCommand.String("job", "", "The job id")

	waitCommand := flag.NewFlagSet("wait", flag.ExitOnError)
	waitJob := waitCommand.String("job", "", "The job id")

	switch os.Args[1] {
	case "transcribe":
		transcribeCommand.Parse(os.Args[2:])
	case "list":
		listCommand.Parse(os.Args[2:])
	case "get":
		getCommand.Parse(os.Args[2:])
	case "wait":
		waitCommand.Parse(os.Args[2:])
		arg.job = waitJob
	default:
		fmt.Printf("%q is not a valid command.\n", os.Args[1])
		os.Exit(2)
	}

	config, err := LoadConfiguration("configuration.json")
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
	client, err := newClient(config)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	if transcribeCommand.Parsed() {
		err = doTranscribe(arg, config)
	}
	if listCommand.Parsed() {
		err = client.ListJobs()
	}
	if getCommand.Parsed() {
		err = client.GetJob(*arg.job)
	}
	if waitCommand.Parsed() {
		err = client.WaitForJob(*arg.job)
	}
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

// doTranscribe uploads a file under the user's prefix; the object-created
// notification then starts the transcription job.
func doTranscribe(arg args, config Config) error {
	if *arg.fileName == "" {
		return fmt.Errorf("no filename provided")
	}
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))
	key := "users/" + config.UserName + "/" + filepath.Base(*arg.fileName)
	if err := storage.Upload(sess, *arg.fileName, config.Bucket, key); err != nil {
		return err
	}
	fmt.Println("Uploaded", key)
	return nil
}
