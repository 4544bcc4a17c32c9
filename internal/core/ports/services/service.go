package services

// ServiceContainer bundles every service implementation handed to the HTTP layer.
type ServiceContainer struct {
	Workflow         WorkflowSvcFacade
	Validation       ValidationSvcFacade
	BatchCreation    BatchCreationSvcFacade
	ContributionBase ContributionBaseSvcFacade
	Export           ExportSvcFacade
}
