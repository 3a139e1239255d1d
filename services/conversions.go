package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humamux"
	"github.com/gorilla/mux"
	"golang.org/x/net/netutil"

	"github.com/ebi-ait/ingest-archiver/config"
	"github.com/ebi-ait/ingest-archiver/converter"
	"github.com/ebi-ait/ingest-archiver/dsp"
)

// Version numbers
var majorVersion = 0
var minorVersion = 1
var patchVersion = 0

// Version string
var version = fmt.Sprintf("%d.%d.%d", majorVersion, minorVersion, patchVersion)

// This type implements the ConversionService interface, converting HCA
// metadata records submitted over HTTP into DSP documents.
type conversions struct {
	// name of the service
	Name string
	// service version identifier
	Version string
	// time which the service was started
	StartTime time.Time
	// port on which the service currently runs
	Port int
	// converter shared by all requests
	Converter *converter.Converter
	// router for REST endpoints
	Router *mux.Router
	// API wrapper
	API huma.API
	// HTTP server.
	Server *http.Server
}

type ServiceInfoOutput struct {
	Body ServiceInfoResponse `doc:"information about the service itself"`
}

// handler method for root
func (service *conversions) getRoot(ctx context.Context,
	input *struct{}) (*ServiceInfoOutput, error) {

	slog.Info("Querying root endpoint...")
	return &ServiceInfoOutput{
		Body: ServiceInfoResponse{
			Name:          service.Name,
			Version:       service.Version,
			Uptime:        int(service.uptime()),
			Documentation: "/docs",
		},
	}, nil
}

type EntityTypesOutput struct {
	Body EntityTypesResponse `doc:"the entity types that can be converted"`
}

// handler method for listing convertible entity types
func (service *conversions) getEntityTypes(ctx context.Context,
	input *struct{}) (*EntityTypesOutput, error) {

	output := &EntityTypesOutput{
		Body: EntityTypesResponse{
			EntityTypes: make([]string, 0, len(converter.EntityTypes)),
		},
	}
	for _, entityType := range converter.EntityTypes {
		output.Body.EntityTypes = append(output.Body.EntityTypes, string(entityType))
	}
	return output, nil
}

type ConversionOutput struct {
	Body dsp.Document `doc:"the converted DSP document"`
}

// handler method for converting a single HCA record
func (service *conversions) convert(ctx context.Context,
	input *struct {
		EntityType string         `path:"entity_type" example:"sample" doc:"the DSP entity type to produce"`
		Body       map[string]any `doc:"the HCA source record for the entity type"`
	}) (*ConversionOutput, error) {

	entityType, err := converter.ParseEntityType(input.EntityType)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	slog.Debug(fmt.Sprintf("Converting %s...", entityType))
	doc, err := service.Converter.Convert(entityType, input.Body)
	if err != nil {
		var conversionErr *converter.ConversionError
		if errors.As(err, &conversionErr) {
			slog.Info(fmt.Sprintf("Conversion of %s failed: %s", entityType, err.Error()))
			return nil, &ConversionErrorResponse{
				Status:  http.StatusUnprocessableEntity,
				Code:    conversionErr.Code,
				Message: conversionErr.Message,
			}
		}
		return nil, huma.Error500InternalServerError(err.Error())
	}
	return &ConversionOutput{Body: doc}, nil
}

// returns the uptime for the service in seconds
func (service *conversions) uptime() float64 {
	return time.Since(service.StartTime).Seconds()
}

// constructs a conversion service that uses the given converter
func NewConversionService(conv *converter.Converter) (ConversionService, error) {
	if conv == nil {
		return nil, fmt.Errorf("No converter was provided.")
	}

	service := new(conversions)
	service.Name = "HCA archiver"
	service.Version = version
	service.Port = -1
	service.StartTime = time.Now()
	service.Converter = conv

	// set up routing
	service.Router = mux.NewRouter()
	service.API = humamux.New(service.Router, huma.DefaultConfig(service.Name, service.Version))
	huma.Get(service.API, "/", service.getRoot)
	huma.Get(service.API, "/entity_types", service.getEntityTypes)
	huma.Post(service.API, "/conversions/{entity_type}", service.convert)

	return service, nil
}

// starts the conversion service
func (service *conversions) Start(port int) error {
	slog.Info(fmt.Sprintf("Starting %s service on port %d...", service.Name, port))
	slog.Info(fmt.Sprintf("(Accepting up to %d connections)", config.Service.MaxConnections))

	service.StartTime = time.Now()

	// create a listener that limits the number of incoming connections
	service.Port = port
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return err
	}
	defer listener.Close()
	listener = netutil.LimitListener(listener, config.Service.MaxConnections)

	// start the server
	service.Server = &http.Server{
		Handler: service.Router}
	err = service.Server.Serve(listener)

	// we don't report the server closing as an error
	if err != http.ErrServerClosed {
		return err
	}
	return nil
}

// gracefully shuts down the service without interrupting active connections
func (service *conversions) Shutdown(ctx context.Context) error {
	if service.Server != nil {
		return service.Server.Shutdown(ctx)
	}
	return nil
}

// closes down the service abruptly, freeing all resources
func (service *conversions) Close() {
	if service.Server != nil {
		service.Server.Close()
	}
}
