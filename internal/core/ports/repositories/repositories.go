package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service layer.
type RepositoryProvider struct {
	PayrollRepo          PayrollRepositoryFacade
	EmployeeRepo         EmployeeReader
	ContributionBaseRepo ContributionBaseRepositoryFacade
	ExportRepo           ExportRepository
}
