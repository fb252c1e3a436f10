package internal

import (
	"fmt"

	"docugen/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) error {
	dsn := cfg.Database.DSN()

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

func autoMigrate() error {
	// Create tables only if they don't exist (preserve existing data)
	result := DB.Exec(`
        CREATE TABLE IF NOT EXISTS document_templates (
            id varchar(191) PRIMARY KEY,
            name longtext NOT NULL,
            type varchar(50) NOT NULL,
            description longtext,
            storage_path longtext NOT NULL,
            file_size bigint,
            font_family varchar(191) DEFAULT 'Times New Roman',
            font_size int DEFAULT 12,
            margin_top double DEFAULT 1,
            margin_bottom double DEFAULT 1,
            margin_left double DEFAULT 1,
            margin_right double DEFAULT 1,
            default_line_spacing double DEFAULT 1,
            is_active boolean DEFAULT true,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_document_templates_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create document_templates table: %w", result.Error)
	}

	ensureTemplateColumns := map[string]string{
		"description":          "ALTER TABLE document_templates ADD COLUMN description longtext",
		"font_family":          "ALTER TABLE document_templates ADD COLUMN font_family varchar(191) DEFAULT 'Times New Roman'",
		"font_size":            "ALTER TABLE document_templates ADD COLUMN font_size int DEFAULT 12",
		"margin_top":           "ALTER TABLE document_templates ADD COLUMN margin_top double DEFAULT 1",
		"margin_bottom":        "ALTER TABLE document_templates ADD COLUMN margin_bottom double DEFAULT 1",
		"margin_left":          "ALTER TABLE document_templates ADD COLUMN margin_left double DEFAULT 1",
		"margin_right":         "ALTER TABLE document_templates ADD COLUMN margin_right double DEFAULT 1",
		"default_line_spacing": "ALTER TABLE document_templates ADD COLUMN default_line_spacing double DEFAULT 1",
		"is_active":            "ALTER TABLE document_templates ADD COLUMN is_active boolean DEFAULT true",
	}
	for column, stmt := range ensureTemplateColumns {
		if err := ensureColumn("document_templates", column, stmt); err != nil {
			return err
		}
	}

	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS placeholder_fields (
            id bigint unsigned AUTO_INCREMENT PRIMARY KEY,
            template_id varchar(191) NOT NULL,
            name varchar(191) NOT NULL,
            display_name longtext,
            type varchar(20) DEFAULT 'text',
            is_required boolean DEFAULT false,
            options json,
            help_text longtext,
            casing varchar(10) DEFAULT 'none',
            validation_pattern longtext,
            default_value longtext,
            sort_order int DEFAULT 0,
            bold boolean DEFAULT false,
            italic boolean DEFAULT false,
            underline boolean DEFAULT false,
            font_family varchar(191),
            font_size int,
            alignment varchar(20),
            left_indent double DEFAULT 0,
            paragraph_index int,
            run_index int,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_placeholder_fields_template_id (template_id),
            INDEX idx_placeholder_fields_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create placeholder_fields table: %w", result.Error)
	}

	ensureFieldColumns := map[string]string{
		"casing":             "ALTER TABLE placeholder_fields ADD COLUMN casing varchar(10) DEFAULT 'none'",
		"validation_pattern": "ALTER TABLE placeholder_fields ADD COLUMN validation_pattern longtext",
		"default_value":      "ALTER TABLE placeholder_fields ADD COLUMN default_value longtext",
		"sort_order":         "ALTER TABLE placeholder_fields ADD COLUMN sort_order int DEFAULT 0",
		"left_indent":        "ALTER TABLE placeholder_fields ADD COLUMN left_indent double DEFAULT 0",
		"paragraph_index":    "ALTER TABLE placeholder_fields ADD COLUMN paragraph_index int",
		"run_index":          "ALTER TABLE placeholder_fields ADD COLUMN run_index int",
	}
	for column, stmt := range ensureFieldColumns {
		if err := ensureColumn("placeholder_fields", column, stmt); err != nil {
			return err
		}
	}

	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS generated_documents (
            id varchar(191) PRIMARY KEY,
            template_id varchar(191) NOT NULL,
            user_name longtext NOT NULL,
            user_email longtext,
            storage_path longtext NOT NULL,
            filename longtext NOT NULL,
            original_filename longtext,
            file_size bigint,
            user_inputs json,
            batch_id varchar(191),
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_generated_documents_template_id (template_id),
            INDEX idx_generated_documents_batch_id (batch_id),
            INDEX idx_generated_documents_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create generated_documents table: %w", result.Error)
	}

	if err := ensureColumn("generated_documents", "batch_id",
		"ALTER TABLE generated_documents ADD COLUMN batch_id varchar(191)"); err != nil {
		return err
	}

	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS batch_jobs (
            id bigint unsigned AUTO_INCREMENT PRIMARY KEY,
            batch_id varchar(191) NOT NULL,
            user_name longtext NOT NULL,
            user_email longtext,
            template_ids json NOT NULL,
            user_inputs json NOT NULL,
            status varchar(30) DEFAULT 'pending',
            total_documents int DEFAULT 0,
            successful_documents int DEFAULT 0,
            error_message text,
            created_at datetime(3) NULL,
            completed_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            UNIQUE INDEX idx_batch_jobs_batch_id (batch_id),
            INDEX idx_batch_jobs_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create batch_jobs table: %w", result.Error)
	}

	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS activity_logs (
            id varchar(191) PRIMARY KEY,
            method varchar(10) NOT NULL,
            path varchar(255) NOT NULL,
            user_agent text,
            ip_address varchar(45),
            request_body text,
            query_params text,
            status_code int NOT NULL,
            response_time bigint NOT NULL,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_activity_logs_deleted_at (deleted_at),
            INDEX idx_activity_logs_method (method),
            INDEX idx_activity_logs_path (path),
            INDEX idx_activity_logs_created_at (created_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create activity_logs table: %w", result.Error)
	}

	return nil
}

func ensureColumn(table, column, statement string) error {
	if DB.Migrator().HasColumn(table, column) {
		return nil
	}

	if err := DB.Exec(statement).Error; err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}

	return nil
}

func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
